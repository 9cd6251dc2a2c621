package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsEncodeKeepsOrder(t *testing.T) {
	p := Params{}.Add("source", "admin").Add("user", "api").Add("function", "add_lead").Add("list_id", "10")
	assert.Equal(t, "source=admin&user=api&function=add_lead&list_id=10", p.Encode())
}

func TestParamsEncodeEscapesValues(t *testing.T) {
	p := Params{}.Add("agent_full_name", "Jhon Doe").Add("email", "a+b@x.io")
	assert.Equal(t, "agent_full_name=Jhon+Doe&email=a%2Bb%40x.io", p.Encode())
}

func TestParamsGet(t *testing.T) {
	p := Params{}.Add("a", "1").Add("a", "2")
	v, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.False(t, p.Has("b"))
	assert.Equal(t, "", Params(nil).Encode())
}
