package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"culina-go/internal/document"
)

// EnsureTables creates one table per collection. Existing tables are left
// untouched.
func (s *Store) EnsureTables(ctx context.Context) error {
	collections := []string{
		document.CollectionUsers,
		document.CollectionSessions,
		document.CollectionProfiles,
		document.CollectionPosts,
		document.CollectionRecipes,
		document.CollectionComments,
		document.CollectionLikes,
		document.CollectionFollows,
	}

	for _, collection := range collections {
		_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: s.table(collection),
			AttributeDefinitions: []types.AttributeDefinition{
				{
					AttributeName: aws.String(attrID),
					AttributeType: types.ScalarAttributeTypeS,
				},
			},
			KeySchema: []types.KeySchemaElement{
				{
					AttributeName: aws.String(attrID),
					KeyType:       types.KeyTypeHash,
				},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		if err != nil {
			var exists *types.ResourceInUseException
			if errors.As(err, &exists) {
				continue
			}
			return fmt.Errorf("failed to create table %s: %w", s.prefix+collection, err)
		}
	}

	return nil
}
