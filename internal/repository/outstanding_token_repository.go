package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/sirupsen/logrus"
)

// OutstandingTokenRepository keeps one row per minted token under the
// owning user's partition, expiring with the token.
type OutstandingTokenRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *logrus.Logger
}

func NewOutstandingTokenRepository(client DynamoDBAPI, tableName string, logger *logrus.Logger) *OutstandingTokenRepository {
	return &OutstandingTokenRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func (r *OutstandingTokenRepository) Store(ctx context.Context, token *models.OutstandingToken) error {
	item, err := attributevalue.MarshalMap(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: token.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: token.GetSK()}
	item["TTL"] = ttlValue(token.ExpiresAt)

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to store outstanding token in DynamoDB")
		return fmt.Errorf("failed to store outstanding token: %w", err)
	}
	return nil
}

func (r *OutstandingTokenRepository) ListByUser(ctx context.Context, userID string) ([]models.OutstandingToken, error) {
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: models.TokenPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: "JTI#"},
		},
	})

	var tokens []models.OutstandingToken
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query outstanding tokens: %w", err)
		}
		var batch []models.OutstandingToken
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tokens: %w", err)
		}
		tokens = append(tokens, batch...)
	}
	return tokens, nil
}

// Delete drops the record of a single token, used when a refresh token is
// rotated out.
func (r *OutstandingTokenRepository) Delete(ctx context.Context, userID, jti string) error {
	token := &models.OutstandingToken{UserID: userID, JTI: jti}
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(token.GetPK(), token.GetSK()),
	})
	if err != nil {
		return fmt.Errorf("failed to delete outstanding token: %w", err)
	}
	return nil
}
