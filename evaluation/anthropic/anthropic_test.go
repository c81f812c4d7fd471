package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"score": 4, "reason": "good"}`,
			want: `{"score": 4, "reason": "good"}`,
		},
		{
			name: "prose around object",
			in:   "Here is my verdict:\n{\"score\": 3, \"reason\": \"ok\"}\nHope that helps.",
			want: `{"score": 3, "reason": "ok"}`,
		},
		{
			name: "no object",
			in:   "no json here",
			want: "no json here",
		},
		{
			name: "reversed braces",
			in:   "} backwards {",
			want: "} backwards {",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
