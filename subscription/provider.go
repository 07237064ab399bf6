// api/subscription/provider.go

package subscription

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	logger "github.com/taskhive/taskhive/api/logging"
	"github.com/taskhive/taskhive/api/model"
)

// Neo4jProvider reads subscription state from the graph on every call.
type Neo4jProvider struct {
	Driver neo4j.Driver
}

func NewNeo4jProvider(driver neo4j.Driver) *Neo4jProvider {
	return &Neo4jProvider{Driver: driver}
}

func (p *Neo4jProvider) CheckAccess(ctx context.Context, userID string) (*model.SubscriptionAccessInfo, error) {
	session := p.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:User {id: $userID})-[:HAS_SUBSCRIPTION]->(s:Subscription)
        RETURN s
        ORDER BY s.updatedAt DESC
        LIMIT 1
        `

		result, err := transaction.Run(query, map[string]interface{}{"userID": userID})
		if err != nil {
			return nil, err
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			return mapNodeToSubscription(node), nil
		}

		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to look up subscription",
			zap.Error(err),
			zap.String("userID", userID))
		return nil, err
	}

	var sub *model.Subscription
	if result != nil {
		sub = result.(*model.Subscription)
	}

	info := AccessInfoFor(userID, sub, time.Now())
	logger.Debug("Subscription access resolved",
		zap.String("userID", userID),
		zap.String("status", info.Status),
		zap.Bool("hasAccess", info.HasAccess))
	return info, nil
}

func mapNodeToSubscription(node neo4j.Node) *model.Subscription {
	props := node.Props

	sub := &model.Subscription{}
	if v, ok := props["id"].(string); ok {
		sub.ID = v
	}
	if v, ok := props["userID"].(string); ok {
		sub.UserID = v
	}
	if v, ok := props["status"].(string); ok {
		sub.Status = v
	}
	if v, ok := props["planType"].(string); ok {
		sub.PlanType = v
	}
	if v, ok := props["trialEndDate"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			sub.TrialEndDate = &t
		}
	}
	if v, ok := props["currentPeriodEnd"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			sub.CurrentPeriodEnd = &t
		}
	}
	return sub
}
