package httpclient

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	c := New(10 * time.Second)

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https allowed", "https://openrouter.ai/api/v1/chat/completions", false},
		{"http allowed", "http://example.com/v1/embeddings", false},
		{"file scheme blocked", "file:///etc/passwd", true},
		{"gopher scheme blocked", "gopher://example.com", true},
		{"localhost blocked", "http://localhost:8080/", true},
		{"localhost subdomain blocked", "http://api.localhost/", true},
		{"loopback IP blocked", "http://127.0.0.1/", true},
		{"private 10.x blocked", "http://10.0.0.5/", true},
		{"private 192.168.x blocked", "http://192.168.1.1/", true},
		{"link-local metadata blocked", "http://169.254.169.254/latest/meta-data/", true},
		{"credential injection blocked", "http://evil.com@localhost/", true},
		{"missing hostname", "http:///path", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateURL_BlockingDisabled(t *testing.T) {
	off := false
	c := NewWithOptions(10*time.Second, Options{BlockPrivateIP: &off})

	_, err := c.ValidateURL("http://localhost:11434/api/embed")
	assert.NoError(t, err, "local endpoints are reachable when blocking is off")
}

func TestIsPrivateIP(t *testing.T) {
	private := []string{"127.0.0.1", "10.1.2.3", "172.16.0.1", "192.168.0.1", "169.254.169.254", "0.0.0.0", "::1", "fe80::1", "fc00::1"}
	for _, s := range private {
		assert.True(t, isPrivateIP(net.ParseIP(s)), "expected %s to be private", s)
	}

	public := []string{"8.8.8.8", "1.1.1.1", "2606:4700:4700::1111"}
	for _, s := range public {
		assert.False(t, isPrivateIP(net.ParseIP(s)), "expected %s to be public", s)
	}
}

func TestWrapClient_AllowsLocalTestServers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := WrapClient(server.Client())
	resp, err := c.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDo_BlocksPrivateTarget(t *testing.T) {
	c := New(10 * time.Second)

	req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:9/", nil)
	require.NoError(t, err)

	_, err = c.Do(req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SSRF")
}
