package projector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

type M = data.M

type A = []any

type P = map[string]uint8

type fieldNavigatorMock struct{ mock.Mock }

// EnsureField implements [domain.FieldNavigator].
func (f *fieldNavigatorMock) EnsureField(doc any, addr ...string) ([]domain.GetSetter, error) {
	call := f.Called(doc, addr)
	return call.Get(0).([]domain.GetSetter), call.Error(1)
}

// GetAddress implements [domain.FieldNavigator].
func (f *fieldNavigatorMock) GetAddress(field string) ([]string, error) {
	call := f.Called(field)
	return call.Get(0).([]string), call.Error(1)
}

// GetField implements [domain.FieldNavigator].
func (f *fieldNavigatorMock) GetField(doc any, addr ...string) ([]domain.GetSetter, bool, error) {
	call := f.Called(doc, addr)
	return call.Get(0).([]domain.GetSetter), call.Bool(1), call.Error(2)
}

type ProjectorTestSuite struct {
	suite.Suite
	p    *Projector
	docs []domain.Document
}

func (s *ProjectorTestSuite) SetupTest() {
	s.p = NewProjector().(*Projector)
	s.docs = []domain.Document{
		M{"_id": "doc0", "age": 5, "name": "Jo", "toys": M{"bebe": true, "ballon": "much"}},
		M{"_id": "doc1", "age": 57, "name": "Louis", "toys": M{"ballon": "yeah"}},
		M{"_id": "doc2", "age": 23},
	}
}

func (s *ProjectorTestSuite) TestNoProjection() {
	docs, err := s.p.Project(s.docs, nil)
	s.NoError(err)
	s.Equal(s.docs, docs)

	docs, err = s.p.Project(s.docs, P{})
	s.NoError(err)
	s.Equal(s.docs, docs)
}

func (s *ProjectorTestSuite) TestKeep() {
	docs, err := s.p.Project(s.docs, P{"age": 1, "name": 1})
	s.NoError(err)
	s.Equal([]domain.Document{
		M{"_id": "doc0", "age": 5, "name": "Jo"},
		M{"_id": "doc1", "age": 57, "name": "Louis"},
		M{"_id": "doc2", "age": 23},
	}, docs)

	docs, err = s.p.Project(s.docs, P{"age": 1, "_id": 0})
	s.NoError(err)
	s.Equal([]domain.Document{M{"age": 5}, M{"age": 57}, M{"age": 23}}, docs)
}

func (s *ProjectorTestSuite) TestOmit() {
	docs, err := s.p.Project(s.docs, P{"toys": 0, "name": 0})
	s.NoError(err)
	s.Equal([]domain.Document{
		M{"_id": "doc0", "age": 5},
		M{"_id": "doc1", "age": 57},
		M{"_id": "doc2", "age": 23},
	}, docs)

	docs, err = s.p.Project(s.docs[2:], P{"_id": 0})
	s.NoError(err)
	s.Equal([]domain.Document{M{"age": 23}}, docs)

	// the source documents are not changed
	s.Equal("Jo", s.docs[0].Get("name"))
}

func (s *ProjectorTestSuite) TestMixed() {
	_, err := s.p.Project(s.docs, P{"age": 1, "name": 0})
	s.ErrorIs(err, ErrMixedProjection)

	_, err = s.p.Project(s.docs, P{"age": 1, "_id": 0})
	s.NoError(err)
}

func (s *ProjectorTestSuite) TestNested() {
	docs, err := s.p.Project(s.docs, P{"toys.ballon": 1})
	s.NoError(err)
	s.Equal([]domain.Document{
		M{"_id": "doc0", "toys": M{"ballon": "much"}},
		M{"_id": "doc1", "toys": M{"ballon": "yeah"}},
		M{"_id": "doc2"},
	}, docs)

	docs, err = s.p.Project(s.docs[:1], P{"toys.bebe": 0})
	s.NoError(err)
	s.Equal([]domain.Document{
		M{"_id": "doc0", "age": 5, "name": "Jo", "toys": M{"ballon": "much"}},
	}, docs)
}

func (s *ProjectorTestSuite) TestExpanded() {
	docs := []domain.Document{M{"_id": 1, "planets": A{M{"name": "Earth", "n": 3}, M{"name": "Mars"}, M{"n": 9}}}}
	res, err := s.p.Project(docs, P{"planets.name": 1})
	s.NoError(err)
	s.Equal([]domain.Document{M{"_id": 1, "planets": M{"name": A{"Earth", "Mars"}}}}, res)
}

func (s *ProjectorTestSuite) TestFieldNavigatorErrors() {
	fail := errors.New("fail")
	fn := new(fieldNavigatorMock)
	s.p = NewProjector(WithFieldNavigator(fn)).(*Projector)

	fn.On("GetAddress", "a").Return([]string{}, fail).Once()
	_, err := s.p.Project(s.docs, P{"a": 1})
	s.ErrorIs(err, fail)

	fn.On("GetAddress", "b").Return([]string{"b"}, nil).Once()
	fn.On("GetField", s.docs[0], []string{"b"}).Return([]domain.GetSetter{}, false, fail).Once()
	_, err = s.p.Project(s.docs, P{"b": 1})
	s.ErrorIs(err, fail)

	fn.AssertExpectations(s.T())
}

func (s *ProjectorTestSuite) TestDocumentFactoryError() {
	fail := errors.New("fail")
	s.p = NewProjector(WithDocumentFactory(func(any) (domain.Document, error) {
		return nil, fail
	})).(*Projector)

	_, err := s.p.Project(s.docs, P{"a": 1})
	s.ErrorIs(err, fail)
	_, err = s.p.Project(s.docs, P{"a": 0})
	s.ErrorIs(err, fail)
}

func TestProjectorTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectorTestSuite))
}
