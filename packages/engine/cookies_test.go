package engine

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForwardedCookies_ForwardAll(t *testing.T) {
	held := []*http.Cookie{
		{Name: "session", Value: "abc"},
		{Name: "theme", Value: "dark"},
	}

	assert.Equal(t, held, ForwardedCookies(true, nil, held))
}

func TestForwardedCookies_ForwardList(t *testing.T) {
	held := []*http.Cookie{
		{Name: "session", Value: "abc"},
		{Name: "theme", Value: "dark"},
	}

	forwarded := ForwardedCookies(false, []string{"session"}, held)

	assert.Len(t, forwarded, 1)
	assert.Equal(t, "session", forwarded[0].Name)
}

func TestForwardedCookies_EmptyPolicy(t *testing.T) {
	held := []*http.Cookie{{Name: "session", Value: "abc"}}

	assert.Nil(t, ForwardedCookies(false, nil, held))
	assert.Nil(t, ForwardedCookies(true, nil, nil))
}
