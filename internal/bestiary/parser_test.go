package bestiary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoryPage = `<!DOCTYPE html>
<html><body>
<div id="mw-pages">
  <a href="/w/index.php?title=Category:Animals&pagefrom=Badger">next page</a>
  <div class="mw-category mw-category-columns">
    <div class="mw-category-group"><h3>A</h3>
      <ul>
        <li><a href="/wiki/Aardvark" title="Aardvark">Aardvark</a></li>
        <li><a href="/wiki/Ant" title="Ant">Ant</a></li>
      </ul>
    </div>
    <div class="mw-category-group"><h3>B</h3>
      <ul>
        <li><a href="/wiki/Badger" title="Badger">Badger</a></li>
      </ul>
    </div>
  </div>
</div>
<ul class="footer-nav"><li>Not a member</li></ul>
</body></html>`

func TestParseTitles(t *testing.T) {
	titles, err := ParseTitles(strings.NewReader(categoryPage))
	require.NoError(t, err)
	assert.Equal(t, []string{"Aardvark", "Ant", "Badger"}, titles)
}

func TestParseTitles_NoCategoryBlock(t *testing.T) {
	titles, err := ParseTitles(strings.NewReader(`<html><body><ul><li>x</li></ul></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestParseTitles_TruncatedHTML(t *testing.T) {
	// html.Parse repairs broken markup; the parser takes what it can.
	titles, err := ParseTitles(strings.NewReader(`<div class="mw-category"><ul><li>Aardvark`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Aardvark"}, titles)
}

func TestNextPageHref(t *testing.T) {
	href, err := NextPageHref(strings.NewReader(categoryPage), "next page")
	require.NoError(t, err)
	assert.Equal(t, "/w/index.php?title=Category:Animals&pagefrom=Badger", href)
}

func TestNextPageHref_LastPage(t *testing.T) {
	href, err := NextPageHref(strings.NewReader(`<html><body><a href="/x">elsewhere</a></body></html>`), "next page")
	require.NoError(t, err)
	assert.Empty(t, href)
}
