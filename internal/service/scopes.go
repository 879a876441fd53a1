package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"cognitoidp/internal/cognito"
	"cognitoidp/internal/idp"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
)

// CreateScope adds a custom scope to the configured resource server,
// creating the server on first use. Adding an existing scope is a no-op.
func (s *AdminService) CreateScope(ctx context.Context, req idp.CreateScopeRequest) idp.Response[idp.CreateScopeResponse] {
	server := strings.TrimSpace(s.cfg.ResourceServerID)
	log := s.log.WithFields(logrus.Fields{"op": "create_scope", "scope": req.Name, "resource_server": server})
	if server == "" {
		log.Error("no resource server configured")
		return idp.Status[idp.CreateScopeResponse](http.StatusInternalServerError)
	}
	if strings.TrimSpace(req.Name) == "" {
		log.Error("scope name is empty")
		return idp.Status[idp.CreateScopeResponse](http.StatusInternalServerError)
	}

	scope := types.ResourceServerScopeType{
		ScopeName:        aws.String(req.Name),
		ScopeDescription: aws.String(firstNonEmpty(req.Description, req.Name)),
	}

	status, err := s.call(ctx, "create_scope", func(ctx context.Context, api cognito.API) error {
		desc, err := api.DescribeResourceServer(ctx, &cip.DescribeResourceServerInput{
			UserPoolId: aws.String(s.cfg.UserPoolID),
			Identifier: aws.String(server),
		})
		if cognito.IsResourceNotFound(err) {
			_, err = api.CreateResourceServer(ctx, &cip.CreateResourceServerInput{
				UserPoolId: aws.String(s.cfg.UserPoolID),
				Identifier: aws.String(server),
				Name:       aws.String(server),
				Scopes:     []types.ResourceServerScopeType{scope},
			})
			if err != nil {
				return fmt.Errorf("create resource server: %w", err)
			}
			log.Info("resource server created")
			return nil
		}
		if err != nil {
			return fmt.Errorf("describe resource server: %w", err)
		}

		existing := desc.ResourceServer
		if existing == nil {
			return fmt.Errorf("describe resource server: empty result")
		}
		for _, sc := range existing.Scopes {
			if aws.ToString(sc.ScopeName) == req.Name {
				log.Debug("scope already present")
				return nil
			}
		}
		scopes := append(append([]types.ResourceServerScopeType{}, existing.Scopes...), scope)
		_, err = api.UpdateResourceServer(ctx, &cip.UpdateResourceServerInput{
			UserPoolId: aws.String(s.cfg.UserPoolID),
			Identifier: aws.String(server),
			Name:       aws.String(firstNonEmpty(aws.ToString(existing.Name), server)),
			Scopes:     scopes,
		})
		if err != nil {
			return fmt.Errorf("update resource server: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(log, status, err, "create scope failed")
		return idp.Status[idp.CreateScopeResponse](http.StatusInternalServerError)
	}

	log.Info("scope created")
	return idp.OK(idp.CreateScopeResponse{
		Name:           req.Name,
		ResourceServer: server,
		FullName:       server + "/" + req.Name,
	})
}
