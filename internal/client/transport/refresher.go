package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/client/authclient"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// RefreshRequest is the body sent to the refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenData is the data member of a successful login or refresh envelope.
type TokenData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// HTTPRefresher performs the refresh exchange with a raw transport, so the
// call never passes through the authenticated client.
type HTTPRefresher struct {
	transport authclient.Transport
	path      string
}

// NewHTTPRefresher posts refresh requests to path through transport.
func NewHTTPRefresher(transport authclient.Transport, path string) *HTTPRefresher {
	if path == "" {
		path = authclient.DefaultRefreshPath
	}
	return &HTTPRefresher{transport: transport, path: path}
}

// Refresh exchanges refreshToken for a new token pair. Only an envelope with
// code 200 and a non-empty access token counts as success.
func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (*authclient.TokenPair, error) {
	body, err := json.Marshal(RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	resp, err := r.transport.Send(ctx, &authclient.Request{
		Method: http.MethodPost,
		URL:    r.path,
		Header: map[string]string{"Content-Type": "application/json"},
		Body:   body,
	})
	if err != nil {
		return nil, &authclient.ClientError{Kind: authclient.KindNetwork, Message: "refresh request failed", Err: err}
	}

	var data TokenData
	if err := DecodeTokens(resp, &data); err != nil {
		return nil, err
	}
	return &authclient.TokenPair{AccessToken: data.AccessToken, RefreshToken: data.RefreshToken}, nil
}

// DecodeTokens unpacks a login or refresh response into data. Anything but
// an envelope with code 200 carrying an access token is a *ClientError.
func DecodeTokens(resp *authclient.Response, data *TokenData) error {
	env, ok := authclient.DecodeEnvelope(resp.Body)
	if !ok || *env.Code != common.CodeOK {
		e := &authclient.ClientError{Kind: authclient.KindBusiness, Status: resp.Status, Message: http.StatusText(resp.Status)}
		if ok {
			e.Code = *env.Code
			if env.Msg != "" {
				e.Message = env.Msg
			}
		}
		if resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden {
			e.Kind = authclient.KindAuthExpired
		}
		return e
	}
	if err := json.Unmarshal(env.Data, data); err != nil || data.AccessToken == "" {
		return &authclient.ClientError{Kind: authclient.KindBusiness, Status: resp.Status, Code: *env.Code, Message: "response carried no access token", Err: err}
	}
	return nil
}
