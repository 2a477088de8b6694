package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestJSON_Registered(t *testing.T) {
	c := encoding.GetCodec(Name)
	require.NotNil(t, c)
	assert.Equal(t, Name, c.Name())
}

func TestJSON_EmptyPayload(t *testing.T) {
	var v struct {
		Token string `json:"token"`
	}
	require.NoError(t, JSON{}.Unmarshal(nil, &v))
	assert.Empty(t, v.Token)
}

func TestJSON_InvalidPayload(t *testing.T) {
	var v struct{}
	assert.Error(t, JSON{}.Unmarshal([]byte("{"), &v))
}
