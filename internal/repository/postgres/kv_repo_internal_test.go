package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePrefix(t *testing.T) {
	assert.Equal(t, "%", likePrefix(""))
	assert.Equal(t, "report:acme:%", likePrefix("report:acme:"))
	assert.Equal(t, `qbo\_token:%`, likePrefix("qbo_token:"))
	assert.Equal(t, `50\%\\off%`, likePrefix(`50%\off`))
}
