package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"movieapi/movie"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MovieRepository implements movie.Handle on top of a DynamoDB table keyed
// by the hex form of the movie id.
type MovieRepository struct {
	client *dynamodb.Client
	table  string
}

type movieItem struct {
	ID       string  `dynamodbav:"id"`
	Title    string  `dynamodbav:"title"`
	Genre    string  `dynamodbav:"genre"`
	Director string  `dynamodbav:"director"`
	Year     int     `dynamodbav:"year"`
	Rating   float64 `dynamodbav:"rating"`
	Plot     string  `dynamodbav:"plot,omitempty"`
	Duration int     `dynamodbav:"duration,omitempty"`
	Poster   string  `dynamodbav:"poster,omitempty"`
}

func NewMovieRepository(client *dynamodb.Client, table string) *MovieRepository {
	return &MovieRepository{
		client: client,
		table:  table,
	}
}

func (r *MovieRepository) Find(ctx context.Context, f movie.Filter) ([]movie.Movie, error) {
	input := &dynamodb.ScanInput{
		TableName: &r.table,
	}
	if cond, ok := filterCondition(f); ok {
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return nil, fmt.Errorf("dynamodb: build movie filter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	movies := []movie.Movie{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan movies: %w", err)
		}

		var items []movieItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal movies: %w", err)
		}
		for _, item := range items {
			m, err := item.toMovie()
			if err != nil {
				return nil, err
			}
			movies = append(movies, m)
		}
	}

	return movies, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id primitive.ObjectID) (movie.Movie, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            itemKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: get movie: %w", err)
	}
	if len(out.Item) == 0 {
		return movie.Movie{}, movie.ErrNotFound
	}

	return unmarshalMovie(out.Item)
}

func (r *MovieRepository) Insert(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	m.ID = primitive.NewObjectID()
	av, err := attributevalue.MarshalMap(newMovieItem(m))
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: marshal movie: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: put movie: %w", err)
	}

	return m, nil
}

func (r *MovieRepository) Update(ctx context.Context, id primitive.ObjectID, p movie.Patch) (movie.Movie, error) {
	if p.IsEmpty() {
		return movie.Movie{}, movie.ErrEmptyPatch
	}

	expr, err := expression.NewBuilder().
		WithUpdate(updateExpression(p)).
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: build movie update: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.table,
		Key:                       itemKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return movie.Movie{}, movie.ErrNotFound
		}
		return movie.Movie{}, fmt.Errorf("dynamodb: update movie: %w", err)
	}

	return unmarshalMovie(out.Attributes)
}

func (r *MovieRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &r.table,
		Key:                 itemKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return movie.ErrNotFound
		}
		return fmt.Errorf("dynamodb: delete movie: %w", err)
	}
	return nil
}

// Release is a no-op: DynamoDB requests are stateless.
func (r *MovieRepository) Release(context.Context) error {
	return nil
}

func itemKey(id primitive.ObjectID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id.Hex()},
	}
}

// filterCondition returns false when f puts no constraint on the scan.
func filterCondition(f movie.Filter) (expression.ConditionBuilder, bool) {
	var conds []expression.ConditionBuilder
	if f.Genre != nil {
		conds = append(conds, expression.Name("genre").Equal(expression.Value(*f.Genre)))
	}
	if f.Director != nil {
		conds = append(conds, expression.Name("director").Equal(expression.Value(*f.Director)))
	}
	if f.MinRating != nil {
		conds = append(conds, expression.Name("rating").GreaterThanEqual(expression.Value(*f.MinRating)))
	}

	switch len(conds) {
	case 0:
		return expression.ConditionBuilder{}, false
	case 1:
		return conds[0], true
	default:
		return expression.And(conds[0], conds[1], conds[2:]...), true
	}
}

func updateExpression(p movie.Patch) expression.UpdateBuilder {
	var upd expression.UpdateBuilder
	for _, fv := range p.Fields() {
		upd = upd.Set(expression.Name(fv.Name), expression.Value(fv.Value))
	}
	return upd
}

func newMovieItem(m movie.Movie) movieItem {
	return movieItem{
		ID:       m.ID.Hex(),
		Title:    m.Title,
		Genre:    m.Genre,
		Director: m.Director,
		Year:     m.Year,
		Rating:   m.Rating,
		Plot:     m.Plot,
		Duration: m.Duration,
		Poster:   m.Poster,
	}
}

func (item movieItem) toMovie() (movie.Movie, error) {
	id, err := primitive.ObjectIDFromHex(item.ID)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: corrupt movie id %q: %w", item.ID, err)
	}
	return movie.Movie{
		ID:       id,
		Title:    item.Title,
		Genre:    item.Genre,
		Director: item.Director,
		Year:     item.Year,
		Rating:   item.Rating,
		Plot:     item.Plot,
		Duration: item.Duration,
		Poster:   item.Poster,
	}, nil
}

func unmarshalMovie(av map[string]types.AttributeValue) (movie.Movie, error) {
	var item movieItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: unmarshal movie: %w", err)
	}
	return item.toMovie()
}
