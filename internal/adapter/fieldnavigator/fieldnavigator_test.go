package fieldnavigator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

type M = data.M

type A = []any

type FieldNavigatorTestSuite struct {
	suite.Suite
	fn *FieldNavigator
}

func (s *FieldNavigatorTestSuite) SetupTest() {
	s.fn = NewFieldNavigator().(*FieldNavigator)
}

func (s *FieldNavigatorTestSuite) values(gs []domain.GetSetter) []any {
	res := make([]any, len(gs))
	for n, g := range gs {
		v, defined := g.Get()
		if !defined {
			v = "<undefined>"
		}
		res[n] = v
	}
	return res
}

func (s *FieldNavigatorTestSuite) TestGetAddress() {
	addr, err := s.fn.GetAddress("a.b.0")
	s.NoError(err)
	s.Equal([]string{"a", "b", "0"}, addr)

	_, err = s.fn.GetAddress("a..b")
	s.Error(err)
	_, err = s.fn.GetAddress("")
	s.Error(err)
}

func (s *FieldNavigatorTestSuite) TestNested() {
	doc := M{"hello": "world", "type": M{"planet": true}}

	gs, expanded, err := s.fn.GetField(doc, "type", "planet")
	s.NoError(err)
	s.False(expanded)
	s.Equal(A{true}, s.values(gs))

	gs, _, err = s.fn.GetField(doc, "type", "plane")
	s.NoError(err)
	s.Equal(A{"<undefined>"}, s.values(gs))

	gs, _, err = s.fn.GetField(doc, "hello", "length")
	s.NoError(err)
	s.Equal(A{"<undefined>"}, s.values(gs))

	gs, _, err = s.fn.GetField(nil, "a")
	s.NoError(err)
	s.Equal(A{"<undefined>"}, s.values(gs))

	gs, _, err = s.fn.GetField(doc)
	s.NoError(err)
	s.Equal(A{"<undefined>"}, s.values(gs))
}

func (s *FieldNavigatorTestSuite) TestListIndex() {
	doc := M{"planets": A{M{"name": "Earth"}, M{"name": "Mars"}}}

	gs, expanded, err := s.fn.GetField(doc, "planets", "1", "name")
	s.NoError(err)
	s.False(expanded)
	s.Equal(A{"Mars"}, s.values(gs))

	gs, _, err = s.fn.GetField(doc, "planets", "5", "name")
	s.NoError(err)
	s.Equal(A{"<undefined>"}, s.values(gs))

	gs, _, err = s.fn.GetField(doc, "planets", "-1")
	s.NoError(err)
	s.Equal(A{"<undefined>"}, s.values(gs))
}

func (s *FieldNavigatorTestSuite) TestListExpansion() {
	doc := M{"planets": A{
		M{"name": "Earth", "moons": A{M{"name": "Moon"}}},
		M{"name": "Mars", "moons": A{M{"name": "Phobos"}, M{"name": "Deimos"}}},
		M{"number": 9},
	}}

	gs, expanded, err := s.fn.GetField(doc, "planets", "name")
	s.NoError(err)
	s.True(expanded)
	s.Equal(A{"Earth", "Mars", "<undefined>"}, s.values(gs))

	gs, expanded, err = s.fn.GetField(doc, "planets", "moons", "name")
	s.NoError(err)
	s.True(expanded)
	s.Equal(A{"Moon", "Phobos", "Deimos", "<undefined>"}, s.values(gs))

	gs, _, err = s.fn.GetField(doc, "planets", "moons", "0", "name")
	s.NoError(err)
	s.Equal(A{"Moon", "Phobos", "<undefined>"}, s.values(gs))
}

// Lists directly inside expanded lists are not expanded again.
func (s *FieldNavigatorTestSuite) TestNestedListsAreNotExpanded() {
	doc := M{"matrix": A{A{M{"x": 1}}, M{"x": 2}}}

	gs, expanded, err := s.fn.GetField(doc, "matrix", "x")
	s.NoError(err)
	s.True(expanded)
	s.Equal(A{"<undefined>", 2}, s.values(gs))
}

func (s *FieldNavigatorTestSuite) TestSetThroughGetSetter() {
	doc := M{"a": A{1, 2}, "b": M{"c": 1}}

	gs, _, err := s.fn.GetField(doc, "a", "1")
	s.NoError(err)
	gs[0].Set(5)
	s.Equal(A{1, 5}, doc["a"])
	gs[0].Unset()
	s.Equal(A{1, nil}, doc["a"])

	gs, _, err = s.fn.GetField(doc, "b", "c")
	s.NoError(err)
	gs[0].Unset()
	s.Equal(M{}, doc["b"])

	// undefined values ignore writes
	gs, _, err = s.fn.GetField(doc, "z", "y")
	s.NoError(err)
	gs[0].Set(1)
	gs[0].Unset()
	s.False(doc.Has("z"))
}

func (s *FieldNavigatorTestSuite) TestEnsureField() {
	doc := M{"a": M{}}

	gs, err := s.fn.EnsureField(doc, "a", "b", "c")
	s.NoError(err)
	s.Len(gs, 1)
	gs[0].Set(1)
	s.Equal(M{"a": M{"b": M{"c": 1}}}, doc)

	doc = M{"list": A{1}}
	gs, err = s.fn.EnsureField(doc, "list", "2")
	s.NoError(err)
	gs[0].Set(3)
	s.Equal(M{"list": A{1, nil, 3}}, doc)

	doc = M{"n": nil}
	gs, err = s.fn.EnsureField(doc, "n", "x")
	s.NoError(err)
	gs[0].Set("y")
	s.Equal(M{"n": M{"x": "y"}}, doc)

	// primitives cannot be traversed
	doc = M{"s": "str"}
	gs, err = s.fn.EnsureField(doc, "s", "x")
	s.NoError(err)
	_, defined := gs[0].Get()
	s.False(defined)
}

func (s *FieldNavigatorTestSuite) TestEnsureFieldFactoryError() {
	fail := errors.New("fail")
	s.fn = NewFieldNavigator(WithDocumentFactory(func(any) (domain.Document, error) {
		return nil, fail
	})).(*FieldNavigator)

	_, err := s.fn.EnsureField(M{}, "a", "b")
	s.ErrorIs(err, fail)
}

func TestFieldNavigatorTestSuite(t *testing.T) {
	suite.Run(t, new(FieldNavigatorTestSuite))
}
