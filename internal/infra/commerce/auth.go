package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

const authProviderPath = "/users-auth-providers/marker/email/users"

type authDataEntry struct {
	Marker string `json:"marker"`
	Value  string `json:"value"`
}

type authRequest struct {
	AuthData []authDataEntry `json:"authData"`
}

type signUpRequest struct {
	FormIdentifier   string                `json:"formIdentifier"`
	AuthData         []authDataEntry       `json:"authData"`
	FormData         []model.FormDataEntry `json:"formData"`
	NotificationData notificationData      `json:"notificationData"`
}

type notificationData struct {
	Email string `json:"email"`
}

type formResponse struct {
	Identifier string                `json:"identifier"`
	Attributes []model.FormAttribute `json:"attributes"`
}

func credentials(email string, password string) []authDataEntry {
	return []authDataEntry{
		{Marker: "email", Value: email},
		{Marker: "password", Value: password},
	}
}

func (c *Client) FormByMarker(ctx context.Context, marker string) ([]model.FormAttribute, error) {
	var form formResponse
	err := c.do(ctx, request{
		op:     "forms.get",
		method: http.MethodGet,
		path:   "/forms/marker/" + marker,
	}, &form)
	if err != nil {
		return nil, err
	}
	return form.Attributes, nil
}

func (c *Client) Login(ctx context.Context, email string, password string) (model.AuthTokens, error) {
	var tokens model.AuthTokens
	err := c.do(ctx, request{
		op:     "auth.login",
		method: http.MethodPost,
		path:   authProviderPath + "/auth",
		body:   authRequest{AuthData: credentials(email, password)},
	}, &tokens)
	if err != nil {
		return model.AuthTokens{}, err
	}
	return tokens, nil
}

func (c *Client) SignUp(ctx context.Context, email string, password string, name string) (model.User, error) {
	var user model.User
	err := c.do(ctx, request{
		op:     "auth.signup",
		method: http.MethodPost,
		path:   authProviderPath + "/sign-up",
		body: signUpRequest{
			FormIdentifier: "sign-up",
			AuthData:       credentials(email, password),
			FormData: []model.FormDataEntry{
				{Marker: "name", Type: "string", Value: name},
			},
			NotificationData: notificationData{Email: email},
		},
	}, &user)
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Logout は成功時に true を返す。それ以外の本文はエラー扱い。
func (c *Client) Logout(ctx context.Context, accessToken string, refreshToken string) error {
	var raw json.RawMessage
	err := c.do(ctx, request{
		op:          "auth.logout",
		method:      http.MethodPost,
		path:        authProviderPath + "/logout",
		accessToken: accessToken,
		body:        map[string]string{"refreshToken": refreshToken},
	}, &raw)
	if err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("true")) {
		return nil
	}

	var body struct {
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
	}
	if err := json.Unmarshal(trimmed, &body); err != nil || body.Message == "" {
		body.Message = "logout rejected"
	}
	if body.StatusCode == 0 {
		body.StatusCode = http.StatusBadRequest
	}
	return &repository.UpstreamError{StatusCode: body.StatusCode, Message: body.Message}
}

func (c *Client) CurrentUser(ctx context.Context, accessToken string) (model.User, error) {
	var user model.User
	err := c.do(ctx, request{
		op:          "users.me",
		method:      http.MethodGet,
		path:        "/users/me",
		accessToken: accessToken,
	}, &user)
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
