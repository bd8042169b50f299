package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lessonlab/internal/guard"
)

// sumCmd adds two integers through a guarded call. The guard is what the
// command demonstrates: the addition happens behind a wrapper that checks
// every argument's type before the call.
var sumCmd = &cobra.Command{
	Use:   "sum [a] [b]",
	Short: "Add two integers via a strict type-checked call",
	Args:  cobra.ExactArgs(2),
	RunE:  runSum,
}

func runSum(cmd *cobra.Command, args []string) error {
	values := make([]any, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("argument %q is not an integer", arg)
		}
		values[i] = n
	}

	sum := guard.MustWrap(guard.SumTwo)
	out, err := sum(values...)
	if err != nil {
		return err
	}
	fmt.Println(out[0])
	return nil
}
