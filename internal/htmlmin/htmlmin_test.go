package htmlmin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var all = Options{RemoveComments: true, CollapseWhitespace: true}

func TestMinify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts Options
		want string
	}{
		{
			name: "drops whitespace between blocks",
			in:   "<html>\n  <body>\n    <p>Hello   world</p>\n  </body>\n</html>\n",
			opts: all,
			want: "<html><body><p>Hello world</p></body></html>",
		},
		{
			name: "keeps single space between inline elements",
			in:   "<p><em>a</em>   <b>b</b></p>",
			opts: all,
			want: "<p><em>a</em> <b>b</b></p>",
		},
		{
			name: "removes comments",
			in:   "<p>a <!-- note --> b</p>",
			opts: all,
			want: "<p>a b</p>",
		},
		{
			name: "keeps conditional comments",
			in:   "<!--[if IE]><p>old</p><![endif]-->",
			opts: all,
			want: "<!--[if IE]><p>old</p><![endif]-->",
		},
		{
			name: "preserves pre content",
			in:   "<pre>  x\n    y</pre>",
			opts: all,
			want: "<pre>  x\n    y</pre>",
		},
		{
			name: "preserves script content",
			in:   "<script>\n  var a = 1;\n</script>",
			opts: all,
			want: "<script>\n  var a = 1;\n</script>",
		},
		{
			name: "keeps entities intact",
			in:   "<p>a &amp;   b</p>",
			opts: all,
			want: "<p>a &amp; b</p>",
		},
		{
			name: "comments kept when disabled",
			in:   "<p>a<!-- c --></p>",
			opts: Options{CollapseWhitespace: true},
			want: "<p>a<!-- c --></p>",
		},
		{
			name: "whitespace kept when disabled",
			in:   "<p>a   b</p>\n",
			opts: Options{RemoveComments: true},
			want: "<p>a   b</p>\n",
		},
		{
			name: "doctype",
			in:   "<!DOCTYPE html>\n<html></html>",
			opts: all,
			want: "<!DOCTYPE html><html></html>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Minify(tt.in, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinifyIsIdempotent(t *testing.T) {
	in := "<div>\n <p> one  <i>two</i> </p>\n <!-- x -->\n</div>"
	once, err := New(all).Minify(in)
	require.NoError(t, err)
	twice, err := New(all).Minify(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Less(t, len(once), len(in))
}
