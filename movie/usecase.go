package movie

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the set of store operations a request may run.
// FindByID, Update and Delete return ErrNotFound when no record has the id.
type Repository interface {
	Find(ctx context.Context, f Filter) ([]Movie, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (Movie, error)
	Insert(ctx context.Context, m Movie) (Movie, error)
	Update(ctx context.Context, id primitive.ObjectID, p Patch) (Movie, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handle is a Repository scoped to a single request. Release must be called
// once the request is done; calling it again is a no-op.
type Handle interface {
	Repository
	Release(ctx context.Context) error
}

// Connector hands out request-scoped handles to the movie store.
type Connector interface {
	Acquire(ctx context.Context) (Handle, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

// List returns the movies matching f, or ErrNoMovies when there are none.
func (uc *Usecase) List(ctx context.Context, f Filter) ([]Movie, error) {
	movies, err := uc.r.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, ErrNoMovies
	}
	return movies, nil
}

func (uc *Usecase) Get(ctx context.Context, id primitive.ObjectID) (Movie, error) {
	return uc.r.FindByID(ctx, id)
}

// Create validates in as a complete record and inserts it.
func (uc *Usecase) Create(ctx context.Context, in Input) (Movie, error) {
	m, err := ValidateFull(in)
	if err != nil {
		return Movie{}, err
	}
	return uc.r.Insert(ctx, m)
}

// Update validates the supplied fields and applies them to the movie with id.
func (uc *Usecase) Update(ctx context.Context, id primitive.ObjectID, in Input) (Movie, error) {
	p, err := ValidatePartial(in)
	if err != nil {
		return Movie{}, err
	}
	if p.IsEmpty() {
		return Movie{}, ErrEmptyPatch
	}
	return uc.r.Update(ctx, id, p)
}

func (uc *Usecase) Delete(ctx context.Context, id primitive.ObjectID) error {
	return uc.r.Delete(ctx, id)
}
