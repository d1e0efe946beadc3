package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/pictopdf/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient *http.Client
var once sync.Once

// GetClient returns the shared pooled client so repeated caption calls reuse
// connections instead of paying the handshake every time.
func GetClient() *http.Client {
	once.Do(func() {
		pooledClient = &http.Client{Transport: customTransport}
	})
	return pooledClient
}
