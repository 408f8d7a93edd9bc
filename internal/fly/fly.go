// Package fly publishes secret sets to the Fly.io platform. The
// bearer token comes from the locally installed fly CLI; the update
// itself is a single GraphQL mutation against the Fly API.
package fly

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/systmms/opsync/internal/errors"
	"github.com/systmms/opsync/internal/logging"
	pkgexec "github.com/systmms/opsync/pkg/exec"
)

// DefaultEndpoint is the Fly.io GraphQL API endpoint.
const DefaultEndpoint = "https://api.fly.io/graphql"

// setSecretsMutation replaces an application's entire secret set.
// replaceAll is always true: secrets absent from the payload are
// removed on the Fly side.
const setSecretsMutation = `
mutation(
    $appId: ID!
    $secrets: [SecretInput!]!
    $replaceAll: Boolean!
) {
    setSecrets(
        input: {
            appId: $appId
            replaceAll: $replaceAll
            secrets: $secrets
        }
    ) {
        app {
            name
        }
        release {
            version
        }
    }
}
`

// APIError carries the first error reported in a GraphQL error payload.
type APIError struct {
	Message string
}

func (e APIError) Error() string {
	return fmt.Sprintf("fly api error: %s", e.Message)
}

// secretInput is one key/value pair of the mutation payload.
type secretInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// graphqlRequest is the wire format of a GraphQL POST body.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// setSecretsResponse models the slice of the GraphQL response we read.
type setSecretsResponse struct {
	Data struct {
		SetSecrets struct {
			App struct {
				Name string `json:"name"`
			} `json:"app"`
			Release struct {
				Version int `json:"version"`
			} `json:"release"`
		} `json:"setSecrets"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// authTokenResponse models `fly auth token --json` output.
type authTokenResponse struct {
	Token string `json:"token"`
}

// Client talks to the fly CLI and the Fly GraphQL API.
type Client struct {
	executor pkgexec.CommandExecutor
	http     *resty.Client
	endpoint string
	logger   *logging.Logger
}

// New creates a fly client against the production endpoint.
func New(logger *logging.Logger) *Client {
	return NewWithExecutor(logger, pkgexec.DefaultExecutor())
}

// NewWithExecutor creates a fly client with a custom executor.
// Primarily used for testing.
func NewWithExecutor(logger *logging.Logger, executor pkgexec.CommandExecutor) *Client {
	return &Client{
		executor: executor,
		http:     resty.New(),
		endpoint: DefaultEndpoint,
		logger:   logger,
	}
}

// SetEndpoint overrides the GraphQL endpoint. Used in tests.
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Validate checks that the fly CLI is installed and responsive.
// The probe runs through the executor so a missing binary and a
// broken installation fail the same way.
func (c *Client) Validate(ctx context.Context) error {
	if _, stderr, err := c.executor.Execute(ctx, "fly", "version"); err != nil {
		return errors.UserError{
			Message:    "fly CLI not available",
			Suggestion: "Install it from https://fly.io/docs/flyctl/install/",
			Details:    strings.TrimSpace(string(stderr)),
			Err:        err,
		}
	}
	return nil
}

// AuthToken obtains a bearer token from the fly CLI's session.
func (c *Client) AuthToken(ctx context.Context) (string, error) {
	args := []string{"auth", "token", "--json"}
	stdout, stderr, err := c.executor.Execute(ctx, "fly", args...)
	if err != nil {
		return "", errors.WrapCommand("fly", args, stderr, err)
	}

	var resp authTokenResponse
	if err := json.Unmarshal(stdout, &resp); err != nil {
		return "", fmt.Errorf("failed to parse fly auth token response: %w", err)
	}

	c.logger.Debug("obtained fly auth token %s", logging.Secret(resp.Token))
	return resp.Token, nil
}

// SetSecrets replaces the application's entire secret set with exactly
// the given mapping and returns the resulting release version. Empty
// values are transmitted as empty strings, not dropped.
func (c *Client) SetSecrets(ctx context.Context, appID string, secrets map[string]string) (int, error) {
	token, err := c.AuthToken(ctx)
	if err != nil {
		return 0, err
	}

	keys := make([]string, 0, len(secrets))
	for key := range secrets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	inputs := make([]secretInput, 0, len(keys))
	for _, key := range keys {
		inputs = append(inputs, secretInput{Key: key, Value: secrets[key]})
	}

	c.logger.Debug("setting %d secrets on fly app %s", len(inputs), appID)

	var result setSecretsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(graphqlRequest{
			Query: setSecretsMutation,
			Variables: map[string]interface{}{
				"appId":      appID,
				"secrets":    inputs,
				"replaceAll": true,
			},
		}).
		SetResult(&result).
		Post(c.endpoint)
	if err != nil {
		return 0, fmt.Errorf("fly api request failed: %w", err)
	}

	if len(result.Errors) > 0 {
		return 0, APIError{Message: result.Errors[0].Message}
	}
	if resp.IsError() {
		return 0, APIError{Message: resp.Status()}
	}

	return result.Data.SetSecrets.Release.Version, nil
}
