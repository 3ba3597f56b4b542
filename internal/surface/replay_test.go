package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathKey_StripsQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://portal.example.edu/clic/checkin?sess=42", "https://portal.example.edu/clic/checkin"},
		{"https://portal.example.edu/clic/checkin", "https://portal.example.edu/clic/checkin"},
		{"http://portal.example.edu/?a=1&b=2", "http://portal.example.edu/"},
		{"://not a url", "://not a url"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pathKey(tt.raw))
	}
}

func TestAddPage_MatchesAcrossQueryStrings(t *testing.T) {
	r := NewPageReplayer()
	r.AddPage("https://portal.example.edu/clic/checkin?sess=1", PageFixture{Body: []byte("x")})

	_, ok := r.pages[pathKey("https://portal.example.edu/clic/checkin?sess=99")]
	assert.True(t, ok, "fixtures are keyed without the query string")
}
