package naming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/uploadkit/naming"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		opts []naming.FormatOption
		want string
	}{
		{
			name: "illegal chars stripped and space underscored",
			raw:  "My File!.JPG",
			want: "My_File.jpg",
		},
		{
			name: "extension lowercased",
			raw:  "photo.PNG",
			want: "photo.png",
		},
		{
			name: "whitespace run collapses to one underscore",
			raw:  "a   b.txt",
			want: "a_b.txt",
		},
		{
			name: "path components dropped",
			raw:  "../../etc/passwd.txt",
			want: "passwd.txt",
		},
		{
			name: "windows path components dropped",
			raw:  "C:\\Users\\me\\cv.pdf",
			want: "cv.pdf",
		},
		{
			name: "append before extension",
			raw:  "avatar.png",
			opts: []naming.FormatOption{naming.WithAppend("_small")},
			want: "avatar_small.png",
		},
		{
			name: "prepend before base",
			raw:  "avatar.png",
			opts: []naming.FormatOption{naming.WithPrepend("user1_")},
			want: "user1_avatar.png",
		},
		{
			name: "decorations sanitized too",
			raw:  "avatar.png",
			opts: []naming.FormatOption{naming.WithAppend("!bad suffix")},
			want: "avatarbad_suffix.png",
		},
		{
			name: "base truncated extension preserved",
			raw:  "averyverylongname.jpeg",
			opts: []naming.FormatOption{naming.WithMaxLength(5)},
			want: "avery.jpeg",
		},
		{
			name: "fallback extension when name has none",
			raw:  "README",
			opts: []naming.FormatOption{naming.WithFallbackExt("txt")},
			want: "README.txt",
		},
		{
			name: "fallback extension leading dot tolerated",
			raw:  "README",
			opts: []naming.FormatOption{naming.WithFallbackExt(".txt")},
			want: "README.txt",
		},
		{
			name: "no extension at all",
			raw:  "Makefile",
			want: "Makefile",
		},
		{
			name: "everything stripped falls back to unnamed",
			raw:  "???!!!.jpg",
			want: "unnamed.jpg",
		},
		{
			name: "unicode removed",
			raw:  "héllo wörld.gif",
			want: "hllo_wrld.gif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, naming.Format(tt.raw, tt.opts...))
		})
	}
}
