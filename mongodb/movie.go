package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"movieapi/movie"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MovieRepository implements movie.Handle. Every operation runs inside the
// session started when the handle was acquired.
type MovieRepository struct {
	coll    *mongo.Collection
	session mongo.Session

	release sync.Once
}

func (r *MovieRepository) Find(ctx context.Context, f movie.Filter) ([]movie.Movie, error) {
	sctx := mongo.NewSessionContext(ctx, r.session)

	cur, err := r.coll.Find(sctx, filterDocument(f))
	if err != nil {
		return nil, fmt.Errorf("mongodb: find movies: %w", err)
	}

	movies := []movie.Movie{}
	if err := cur.All(sctx, &movies); err != nil {
		return nil, fmt.Errorf("mongodb: decode movies: %w", err)
	}
	return movies, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id primitive.ObjectID) (movie.Movie, error) {
	sctx := mongo.NewSessionContext(ctx, r.session)

	var m movie.Movie
	err := r.coll.FindOne(sctx, idDocument(id)).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return movie.Movie{}, movie.ErrNotFound
	} else if err != nil {
		return movie.Movie{}, fmt.Errorf("mongodb: find movie: %w", err)
	}
	return m, nil
}

func (r *MovieRepository) Insert(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	sctx := mongo.NewSessionContext(ctx, r.session)

	m.ID = primitive.NilObjectID
	res, err := r.coll.InsertOne(sctx, m)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("mongodb: insert movie: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return movie.Movie{}, fmt.Errorf("mongodb: unexpected inserted id %v", res.InsertedID)
	}
	m.ID = id
	return m, nil
}

func (r *MovieRepository) Update(ctx context.Context, id primitive.ObjectID, p movie.Patch) (movie.Movie, error) {
	sctx := mongo.NewSessionContext(ctx, r.session)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.D{{Key: "$set", Value: setDocument(p)}}

	var m movie.Movie
	err := r.coll.FindOneAndUpdate(sctx, idDocument(id), update, opts).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return movie.Movie{}, movie.ErrNotFound
	} else if err != nil {
		return movie.Movie{}, fmt.Errorf("mongodb: update movie: %w", err)
	}
	return m, nil
}

func (r *MovieRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	sctx := mongo.NewSessionContext(ctx, r.session)

	res, err := r.coll.DeleteOne(sctx, idDocument(id))
	if err != nil {
		return fmt.Errorf("mongodb: delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return movie.ErrNotFound
	}
	return nil
}

// Release ends the session. Only the first call has any effect.
func (r *MovieRepository) Release(ctx context.Context) error {
	r.release.Do(func() {
		r.session.EndSession(ctx)
	})
	return nil
}

func idDocument(id primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// filterDocument translates f into a query document. Unset fields add no
// condition, so the zero Filter yields an empty document.
func filterDocument(f movie.Filter) bson.D {
	doc := bson.D{}
	if f.Genre != nil {
		doc = append(doc, bson.E{Key: "genre", Value: *f.Genre})
	}
	if f.Director != nil {
		doc = append(doc, bson.E{Key: "director", Value: *f.Director})
	}
	if f.MinRating != nil {
		doc = append(doc, bson.E{Key: "rating", Value: bson.D{{Key: "$gte", Value: *f.MinRating}}})
	}
	return doc
}

func setDocument(p movie.Patch) bson.D {
	doc := make(bson.D, 0, p.Len())
	for _, fv := range p.Fields() {
		doc = append(doc, bson.E{Key: fv.Name, Value: fv.Value})
	}
	return doc
}
