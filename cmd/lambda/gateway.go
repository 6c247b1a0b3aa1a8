package main

import (
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// identityHeaders are only ever set from the API Gateway authorizer, never passed through from clients
var identityHeaders = []string{
	"X-API-Gateway-Authorized",
	"X-User-ID",
	"X-User-Email",
	"X-User-Roles",
}

// applyGatewayIdentity copies the claims validated by the API Gateway JWT authorizer into the
// headers the auth middleware trusts. It reports whether the request carried authorizer claims.
func applyGatewayIdentity(req *events.APIGatewayV2HTTPRequest) bool {
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	for key := range req.Headers {
		for _, h := range identityHeaders {
			if strings.EqualFold(key, h) {
				delete(req.Headers, key)
			}
		}
	}

	authorizer := req.RequestContext.Authorizer
	if authorizer == nil || authorizer.JWT == nil {
		return false
	}
	claims := authorizer.JWT.Claims
	userID := claims["sub"]
	if userID == "" {
		return false
	}

	req.Headers[http.CanonicalHeaderKey("X-API-Gateway-Authorized")] = "true"
	req.Headers[http.CanonicalHeaderKey("X-User-ID")] = userID
	if email := claims["email"]; email != "" {
		req.Headers[http.CanonicalHeaderKey("X-User-Email")] = email
	}
	if role := claims["role"]; role != "" {
		req.Headers[http.CanonicalHeaderKey("X-User-Roles")] = role
	}
	return true
}
