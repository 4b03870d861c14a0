package yahoo

import (
	"github.com/plcheng/screener/pkg/config"
	"github.com/plcheng/screener/pkg/httputil"
	"github.com/plcheng/screener/pkg/logger"
)

// Client handles communication with the Yahoo Finance public endpoints.
// All provider calls for the screener go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.YahooConfig
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}
