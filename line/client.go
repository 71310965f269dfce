package line

import (
	"net/http"
)

// Client sends messages through the LINE Messaging API. It is stateless and
// constructed per request with one resolved access token; callers decide how
// to handle failures.
type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(accessToken, apiURL string, httpClient http.Client) Client {
	client := Client{
		config: Config{
			AccessToken: accessToken,
			APIURL:      apiURL,
		},
		httpClient: &httpClient,
	}

	return client
}
