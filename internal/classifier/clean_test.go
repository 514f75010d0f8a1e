package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases",
			in:   "Breaking NEWS",
			want: "breaking news",
		},
		{
			name: "strips urls",
			in:   "read more at https://example.com/story now",
			want: "read more at  now",
		},
		{
			name: "strips www urls",
			in:   "visit www.example.com today",
			want: "visit  today",
		},
		{
			name: "strips html tags",
			in:   "<p>hello</p> world",
			want: "hello world",
		},
		{
			name: "strips punctuation",
			in:   "wait, what?! really...",
			want: "wait what really",
		},
		{
			name: "strips line breaks",
			in:   "first\nsecond",
			want: "firstsecond",
		},
		{
			name: "strips tokens containing digits",
			in:   "covid19 cases rose by 5000 overnight",
			want: " cases rose by  overnight",
		},
		{
			name: "empty input stays empty",
			in:   "",
			want: "",
		},
		{
			name: "entirely removable input becomes empty",
			in:   "123 456!",
			want: " ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestCleanIsDeterministic(t *testing.T) {
	in := "Scientists <b>confirm</b> https://x.test/a 42 things, REALLY!"
	assert.Equal(t, Clean(in), Clean(in))
}
