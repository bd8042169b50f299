package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lessonlab/internal/attendance"
)

// overlapCmd computes pupil/tutor co-presence from a lesson record
var overlapCmd = &cobra.Command{
	Use:   "overlap [lesson.json]",
	Short: "Compute pupil/tutor co-presence seconds within a lesson",
	Long: `Reads a lesson record and prints the total seconds the pupil and
tutor were present at the same time, restricted to the lesson bounds.

The record is JSON with three timestamp lists (unix seconds):
  {"lesson": [start, end], "pupil": [s1, e1, ...], "tutor": [s1, e1, ...]}`,
	Args: cobra.ExactArgs(1),
	RunE: runOverlap,
}

func runOverlap(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read lesson record: %w", err)
	}

	var lesson attendance.Lesson
	if err := json.Unmarshal(data, &lesson); err != nil {
		return fmt.Errorf("parse lesson record %s: %w", args[0], err)
	}

	seconds, err := lesson.Appearance()
	if err != nil {
		return err
	}
	fmt.Println(seconds)
	return nil
}
