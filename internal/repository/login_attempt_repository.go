package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/sirupsen/logrus"
)

type LoginAttemptRepository struct {
	client    DynamoDBAPI
	tableName string
	retention time.Duration
	logger    *logrus.Logger
}

func NewLoginAttemptRepository(client DynamoDBAPI, tableName string, retention time.Duration, logger *logrus.Logger) *LoginAttemptRepository {
	return &LoginAttemptRepository{
		client:    client,
		tableName: tableName,
		retention: retention,
		logger:    logger,
	}
}

func (r *LoginAttemptRepository) Append(ctx context.Context, attempt *models.LoginAttempt) error {
	item, err := attributevalue.MarshalMap(attempt)
	if err != nil {
		return fmt.Errorf("failed to marshal login attempt: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: attempt.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: attempt.GetSK()}
	item["TTL"] = ttlValue(attempt.AttemptedAt.Add(r.retention))

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).WithField("user_id", attempt.UserID).Error("Failed to store login attempt")
		return fmt.Errorf("failed to store login attempt: %w", err)
	}
	return nil
}

// CountFailuresSince counts failed attempts strictly after since.
func (r *LoginAttemptRepository) CountFailuresSince(ctx context.Context, userID string, since time.Time) (int, error) {
	// "~" sorts after every character used in the "#<uuid>" suffix, so rows
	// stamped exactly at since are excluded.
	lower := "AT#" + since.UTC().Format(models.SortableTime) + "#~"

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND SK > :lower"),
		FilterExpression:       aws.String("successful = :false"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":    &types.AttributeValueMemberS{Value: models.AttemptPK(userID)},
			":lower": &types.AttributeValueMemberS{Value: lower},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
		Select: types.SelectCount,
	})

	count := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logger.WithError(err).WithField("user_id", userID).Error("Failed to count login attempts")
			return 0, fmt.Errorf("failed to count login attempts: %w", err)
		}
		count += int(page.Count)
	}
	return count, nil
}

// MarkAllSuccessful flags every stored attempt of the user as successful.
func (r *LoginAttemptRepository) MarkAllSuccessful(ctx context.Context, userID string) error {
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		FilterExpression:       aws.String("successful = :false"),
		ProjectionExpression:   aws.String("PK, SK"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":    &types.AttributeValueMemberS{Value: models.AttemptPK(userID)},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list login attempts: %w", err)
		}
		for _, item := range page.Items {
			_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
				TableName:        aws.String(r.tableName),
				Key:              map[string]types.AttributeValue{"PK": item["PK"], "SK": item["SK"]},
				UpdateExpression: aws.String("SET successful = :true"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":true": &types.AttributeValueMemberBOOL{Value: true},
				},
			})
			if err != nil {
				r.logger.WithError(err).WithField("user_id", userID).Error("Failed to reset login attempt")
				return fmt.Errorf("failed to reset login attempt: %w", err)
			}
		}
	}
	return nil
}
