package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInboundMessage(t *testing.T) {
	tests := []struct {
		name     string
		arg      any
		wantOK   bool
		wantType string
	}{
		{"nil", nil, false, ""},
		{"missing type", map[string]interface{}{"payload": map[string]interface{}{}}, false, ""},
		{
			"map form",
			map[string]interface{}{"type": "query", "payload": map[string]interface{}{"query": "rain"}},
			true, "query",
		},
		{"json string", `{"type":"query","payload":{"query":"rain"}}`, true, "query"},
		{"json bytes", []byte(`{"type":"query"}`), true, "query"},
		{"garbage string", "not json", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg inboundMessage
			var ok bool
			if tt.arg == nil {
				msg, ok = parseInboundMessage()
			} else {
				msg, ok = parseInboundMessage(tt.arg)
			}
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantType, msg.Type)
				assert.NotNil(t, msg.Payload)
			}
		})
	}
}

func TestStrFromAny(t *testing.T) {
	assert.Equal(t, "rain", strFromAny("  rain "))
	assert.Equal(t, "", strFromAny(42))
	assert.Equal(t, "", strFromAny(nil))
}
