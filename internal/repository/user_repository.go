package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/sirupsen/logrus"
)

var ErrUserExists = errors.New("user already exists")

type UserRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *logrus.Logger
}

func NewUserRepository(client DynamoDBAPI, tableName string, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// GetByMobile returns nil, nil when no user is registered for mobile.
func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*models.User, error) {
	user := &models.User{Mobile: mobile}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(user.GetPK(), user.GetSK()),
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get user from DynamoDB")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var dbUser models.User
	if err := attributevalue.UnmarshalMap(result.Item, &dbUser); err != nil {
		r.logger.WithError(err).Error("Failed to unmarshal user from DynamoDB")
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &dbUser, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal user for DynamoDB")
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: user.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: user.GetSK()}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrUserExists
		}
		r.logger.WithError(err).Error("Failed to create user in DynamoDB")
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// UpdateProfile applies the non-nil fields of patch and returns the stored
// user after the update.
func (r *UserRepository) UpdateProfile(ctx context.Context, mobile string, patch models.ProfilePatch) (*models.User, error) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{
		":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
	}
	expr := "SET updated_at = :updated_at"

	if patch.Name != nil {
		names["#name"] = "name"
		values[":name"] = &types.AttributeValueMemberS{Value: *patch.Name}
		expr += ", #name = :name"
	}
	if patch.Email != nil {
		names["#email"] = "email"
		values[":email"] = &types.AttributeValueMemberS{Value: *patch.Email}
		expr += ", #email = :email"
	}

	return r.update(ctx, mobile, expr, names, values)
}

func (r *UserRepository) SetVerified(ctx context.Context, mobile string) error {
	_, err := r.update(ctx, mobile, "SET is_verified = :true, updated_at = :updated_at", nil,
		map[string]types.AttributeValue{
			":true":       &types.AttributeValueMemberBOOL{Value: true},
			":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		})
	return err
}

func (r *UserRepository) SetPassword(ctx context.Context, mobile, passwordHash string) error {
	_, err := r.update(ctx, mobile, "SET password_hash = :hash, updated_at = :updated_at", nil,
		map[string]types.AttributeValue{
			":hash":       &types.AttributeValueMemberS{Value: passwordHash},
			":updated_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		})
	return err
}

func (r *UserRepository) update(ctx context.Context, mobile, expr string, names map[string]string, values map[string]types.AttributeValue) (*models.User, error) {
	user := &models.User{Mobile: mobile}
	if len(names) == 0 {
		names = nil
	}

	result, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       itemKey(user.GetPK(), user.GetSK()),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, nil
		}
		r.logger.WithError(err).WithField("mobile", mobile).Error("Failed to update user in DynamoDB")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	var updated models.User
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &updated, nil
}
