package backend

import (
	"errors"
	"fmt"
	"testing"
)

func TestMedia_Document(t *testing.T) {
	testCases := []struct {
		name  string
		media *Media
		want  bool
	}{
		{"nil", nil, false},
		{"document", &Media{Kind: MediaDocument}, true},
		{"sticker", &Media{Kind: MediaSticker}, true},
		{"photo", &Media{Kind: MediaPhoto}, false},
		{"other", &Media{Kind: MediaOther}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.media.Document(); got != tc.want {
				t.Errorf("Document() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPasswordRequiredError_As(t *testing.T) {
	err := fmt.Errorf("sign in: %w", &PasswordRequiredError{Token: PasswordToken{Hint: "cat"}})

	var pre *PasswordRequiredError
	if !errors.As(err, &pre) {
		t.Fatal("expected errors.As to find PasswordRequiredError")
	}
	if pre.Token.Hint != "cat" {
		t.Errorf("hint = %q", pre.Token.Hint)
	}
}
