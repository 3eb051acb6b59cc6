package backend

import (
	"context"
	"net/http"

	"coldchain/contracts/session"
	id "coldchain/pkg/domain"
)

// Session fetches the caller's identity and organizational context.
func (c *Client) Session(ctx context.Context) (*session.Session, error) {
	var out session.Session
	if err := c.do(ctx, request{method: http.MethodGet, path: "/session", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SwitchOrganization makes orgID the active organization and returns the
// re-resolved session.
func (c *Client) SwitchOrganization(ctx context.Context, orgID id.OrganizationID) (*session.Session, error) {
	var out session.Session
	body := session.SwitchOrganizationRequest{OrganizationID: orgID}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/session/organization", body: body, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrganization creates an organization owned by the caller. The caller
// has to sync the session afterwards to act in it.
func (c *Client) CreateOrganization(ctx context.Context, name string) (*session.Organization, error) {
	var out session.Organization
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/organizations", body: body, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
