package main

import (
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

func TestApplyGatewayIdentity(t *testing.T) {
	withClaims := func(claims map[string]string) events.APIGatewayV2HTTPRequestContext {
		return events.APIGatewayV2HTTPRequestContext{
			Authorizer: &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
				JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{Claims: claims},
			},
		}
	}

	tests := []struct {
		name        string
		req         events.APIGatewayV2HTTPRequest
		wantOK      bool
		wantHeaders map[string]string
	}{
		{
			name: "authorizer claims",
			req: events.APIGatewayV2HTTPRequest{
				RequestContext: withClaims(map[string]string{"sub": "user-1", "email": "a@example.com"}),
			},
			wantOK: true,
			wantHeaders: map[string]string{
				"X-Api-Gateway-Authorized": "true",
				"X-User-Id":                "user-1",
				"X-User-Email":             "a@example.com",
			},
		},
		{
			name: "spoofed headers are dropped",
			req: events.APIGatewayV2HTTPRequest{
				Headers: map[string]string{"x-user-id": "intruder", "x-api-gateway-authorized": "true", "accept": "*/*"},
			},
			wantOK:      false,
			wantHeaders: map[string]string{"accept": "*/*"},
		},
		{
			name: "claims without subject",
			req: events.APIGatewayV2HTTPRequest{
				RequestContext: withClaims(map[string]string{"email": "a@example.com"}),
			},
			wantOK:      false,
			wantHeaders: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			ok := applyGatewayIdentity(&req)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantHeaders, req.Headers)
		})
	}
}
