package ports

import "net/http"

// HTTPClient is the transport used by the gateway client.
// *http.Client satisfies it; tests substitute httptest clients or stubs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
