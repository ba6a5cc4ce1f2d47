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

type OTPRepository struct {
	client    DynamoDBAPI
	tableName string
	retention time.Duration
	logger    *logrus.Logger
}

// NewOTPRepository stores codes with a TTL of expires_at + retention, so
// expired codes stay queryable for a while before DynamoDB reaps them.
func NewOTPRepository(client DynamoDBAPI, tableName string, retention time.Duration, logger *logrus.Logger) *OTPRepository {
	return &OTPRepository{
		client:    client,
		tableName: tableName,
		retention: retention,
		logger:    logger,
	}
}

func (r *OTPRepository) Create(ctx context.Context, code *models.OneTimeCode) error {
	item, err := attributevalue.MarshalMap(code)
	if err != nil {
		return fmt.Errorf("failed to marshal OTP: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: code.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: code.GetSK()}
	item["TTL"] = ttlValue(code.ExpiresAt.Add(r.retention))

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to store OTP in DynamoDB")
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	return nil
}

// LatestUnverified returns the most recently created code for phone that has
// not been verified, or nil when there is none.
func (r *OTPRepository) LatestUnverified(ctx context.Context, phone string) (*models.OneTimeCode, error) {
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		FilterExpression:       aws.String("is_verified = :false"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: (&models.OneTimeCode{PhoneNumber: phone}).GetPK()},
			":prefix": &types.AttributeValueMemberS{Value: "CODE#"},
			":false":  &types.AttributeValueMemberBOOL{Value: false},
		},
		ScanIndexForward: aws.Bool(false),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logger.WithError(err).Error("Failed to query OTPs from DynamoDB")
			return nil, fmt.Errorf("failed to query OTPs: %w", err)
		}
		if len(page.Items) == 0 {
			continue
		}

		var code models.OneTimeCode
		if err := attributevalue.UnmarshalMap(page.Items[0], &code); err != nil {
			return nil, fmt.Errorf("failed to unmarshal OTP: %w", err)
		}
		return &code, nil
	}

	return nil, nil
}

func (r *OTPRepository) MarkSent(ctx context.Context, code *models.OneTimeCode) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              itemKey(code.GetPK(), code.GetSK()),
		UpdateExpression: aws.String("SET is_sent = :true"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to mark OTP sent: %w", err)
	}
	code.IsSent = true
	return nil
}

// MarkVerified flips is_verified only if it is still false. It reports false
// when another caller verified the code first.
func (r *OTPRepository) MarkVerified(ctx context.Context, code *models.OneTimeCode) (bool, error) {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 itemKey(code.GetPK(), code.GetSK()),
		UpdateExpression:    aws.String("SET is_verified = :true"),
		ConditionExpression: aws.String("is_verified = :false"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true":  &types.AttributeValueMemberBOOL{Value: true},
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to mark OTP verified: %w", err)
	}
	code.IsVerified = true
	return true, nil
}
