// Package storetest holds the behavior every core.Store adapter must share.
package storetest

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/aretw0/humus/pkg/core"
)

// StoreSuite runs the core.Store contract against the store built by New.
// Adapters embed it and set New.
type StoreSuite struct {
	suite.Suite
	New   func() core.Store
	Store core.Store
	Ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	s.Ctx = context.Background()
	s.Store = s.New()
	s.Require().NoError(s.Store.Initialize(s.Ctx))
}

func (s *StoreSuite) doc(kind string, fields core.Metadata) core.Document {
	return core.Document{Kind: kind, Fields: fields}
}

// TestCreateAndFind verifies creation, generated identifiers and lookups.
func (s *StoreSuite) TestCreateAndFind() {
	s.Run("assigns an identifier when none is given", func() {
		id, err := s.Store.Create(s.Ctx, s.doc("user", core.Metadata{"email": "a@b.c"}))
		s.Require().NoError(err)
		s.NotEmpty(id)

		got, found, err := s.Store.FindByID(s.Ctx, "user", id)
		s.Require().NoError(err)
		s.Require().True(found)
		s.Equal(id, got.ID)
		s.Equal("user", got.Kind)
		s.Equal("a@b.c", got.Fields["email"])
	})

	s.Run("keeps a caller identifier", func() {
		id := uuid.NewString()
		got, err := s.Store.Create(s.Ctx, core.Document{Kind: "user", ID: id, Fields: core.Metadata{}})
		s.Require().NoError(err)
		s.Equal(id, got)
	})

	s.Run("rejects a duplicate identifier", func() {
		doc := core.Document{Kind: "user", ID: uuid.NewString(), Fields: core.Metadata{}}
		_, err := s.Store.Create(s.Ctx, doc)
		s.Require().NoError(err)
		_, err = s.Store.Create(s.Ctx, doc)
		s.ErrorIs(err, core.ErrAlreadyExists)
	})

	s.Run("reports absence softly", func() {
		_, found, err := s.Store.FindByID(s.Ctx, "user", uuid.NewString())
		s.NoError(err)
		s.False(found)

		_, found, err = s.Store.FindByID(s.Ctx, "nothing-here", "x")
		s.NoError(err)
		s.False(found)
	})
}

// TestRoundTrip verifies that every value type survives storage.
func (s *StoreSuite) TestRoundTrip() {
	fields := core.Metadata{
		"name":    "Mac Book Pro",
		"price":   460000.0,
		"ratio":   0.25,
		"friends": []string{"f1", "f2"},
	}
	id, err := s.Store.Create(s.Ctx, s.doc("product", fields))
	s.Require().NoError(err)

	got, found, err := s.Store.FindByID(s.Ctx, "product", id)
	s.Require().NoError(err)
	s.Require().True(found)

	s.Equal("Mac Book Pro", got.Fields["name"])
	s.EqualValues(460000, got.Fields["price"])
	s.EqualValues(0.25, got.Fields["ratio"])

	friends, err := core.Coerce(core.TypeIDs, got.Fields["friends"])
	s.Require().NoError(err)
	s.True(friends.Equal(core.IDs("f1", "f2")))
}

// TestSaveListDelete verifies updates, per-kind listing and removal.
func (s *StoreSuite) TestSaveListDelete() {
	a, err := s.Store.Create(s.Ctx, s.doc("house", core.Metadata{"city": "Lagos"}))
	s.Require().NoError(err)
	_, err = s.Store.Create(s.Ctx, s.doc("house", core.Metadata{"city": "Accra"}))
	s.Require().NoError(err)
	_, err = s.Store.Create(s.Ctx, s.doc("car", core.Metadata{"make": "Toyota"}))
	s.Require().NoError(err)

	s.Require().NoError(s.Store.Save(s.Ctx, core.Document{Kind: "house", ID: a, Fields: core.Metadata{"city": "Abuja"}}))
	got, _, err := s.Store.FindByID(s.Ctx, "house", a)
	s.Require().NoError(err)
	s.Equal("Abuja", got.Fields["city"])

	houses, err := s.Store.List(s.Ctx, "house")
	s.Require().NoError(err)
	s.Len(houses, 2)
	for _, h := range houses {
		s.Equal("house", h.Kind)
	}

	empty, err := s.Store.List(s.Ctx, "spaceship")
	s.Require().NoError(err)
	s.Empty(empty)

	s.Require().NoError(s.Store.Delete(s.Ctx, "house", a))
	_, found, err := s.Store.FindByID(s.Ctx, "house", a)
	s.Require().NoError(err)
	s.False(found)

	s.ErrorIs(s.Store.Delete(s.Ctx, "house", a), core.ErrNotFound)
}

// TestIsolation verifies that callers cannot mutate stored documents.
func (s *StoreSuite) TestIsolation() {
	fields := core.Metadata{"city": "Lagos"}
	id, err := s.Store.Create(s.Ctx, s.doc("house", fields))
	s.Require().NoError(err)
	fields["city"] = "Accra"

	got, _, err := s.Store.FindByID(s.Ctx, "house", id)
	s.Require().NoError(err)
	s.Equal("Lagos", got.Fields["city"])

	got.Fields["city"] = "Abuja"
	again, _, err := s.Store.FindByID(s.Ctx, "house", id)
	s.Require().NoError(err)
	s.Equal("Lagos", again.Fields["city"])
}
