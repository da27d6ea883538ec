package matcher

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

type M = data.M

type A = []any

type fieldNavigatorMock struct{ mock.Mock }

// EnsureField implements domain.FieldNavigator.
func (f *fieldNavigatorMock) EnsureField(obj any, addr ...string) ([]domain.GetSetter, error) {
	call := f.Called(obj, addr)
	return call.Get(0).([]domain.GetSetter), call.Error(1)
}

// GetAddress implements domain.FieldNavigator.
func (f *fieldNavigatorMock) GetAddress(field string) ([]string, error) {
	call := f.Called(field)
	return call.Get(0).([]string), call.Error(1)
}

// GetField implements domain.FieldNavigator.
func (f *fieldNavigatorMock) GetField(obj any, addr ...string) ([]domain.GetSetter, bool, error) {
	call := f.Called(obj, addr)
	return call.Get(0).([]domain.GetSetter), call.Bool(1), call.Error(2)
}

type comparerMock struct{ mock.Mock }

// Comparable implements domain.Comparer.
func (c *comparerMock) Comparable(a any, b any) bool {
	return c.Called(a, b).Bool(0)
}

// Compare implements domain.Comparer.
func (c *comparerMock) Compare(a any, b any) (int, error) {
	call := c.Called(a, b)
	return call.Int(0), call.Error(1)
}

type MatcherTestSuite struct {
	suite.Suite
	mtchr *Matcher
}

// Can find documents with simple fields.
func (s *MatcherTestSuite) TestSimpleFieldEquality() {
	s.NotMatches(s.mtchr.Match(M{"test": "yeah"}, M{"test": "yea"}))
	s.Matches(s.mtchr.Match(M{"test": "yeah"}, M{"test": "yeah"}))
	s.Matches(s.mtchr.Match(M{"n": int64(5)}, M{"n": 5.0}))
	s.Matches(s.mtchr.Match(M{"test": "yeah"}, nil))
	s.NotMatches(s.mtchr.Match(M{"test": "yeah"}, "yeah"))
}

// Can find documents with the dot-notation.
func (s *MatcherTestSuite) TestDotNotation() {
	s.NotMatches(s.mtchr.Match(M{"test": M{"ooo": "yeah"}}, M{"test.ooo": "yea"}))
	s.NotMatches(s.mtchr.Match(M{"test": M{"ooo": "yeah"}}, M{"tst.ooo": "yeah"}))
	s.Matches(s.mtchr.Match(M{"test": M{"ooo": "yeah"}}, M{"test.ooo": "yeah"}))
}

// A scalar matches any item of a list field, a list must match the whole list.
func (s *MatcherTestSuite) TestListEquality() {
	doc := M{"tags": A{"a", "b"}}
	s.Matches(s.mtchr.Match(doc, M{"tags": "b"}))
	s.NotMatches(s.mtchr.Match(doc, M{"tags": "c"}))
	s.Matches(s.mtchr.Match(doc, M{"tags": A{"a", "b"}}))
	s.NotMatches(s.mtchr.Match(doc, M{"tags": A{"b", "a"}}))

	planets := M{"planets": A{M{"name": "Earth"}, M{"name": "Mars"}}}
	s.Matches(s.mtchr.Match(planets, M{"planets.name": "Mars"}))
	s.NotMatches(s.mtchr.Match(planets, M{"planets.name": "Venus"}))
}

func (s *MatcherTestSuite) TestRegex() {
	rgx := regexp.MustCompile("(?i)^ab")
	s.Matches(s.mtchr.Match(M{"s": "ABc"}, M{"s": rgx}))
	s.Matches(s.mtchr.Match(M{"s": "ABc"}, M{"s": M{"$regex": rgx}}))
	s.Matches(s.mtchr.Match(M{"s": A{"x", "abc"}}, M{"s": M{"$regex": rgx}}))
	s.Matches(s.mtchr.Match(M{"s": A{"x", "abc"}}, M{"s": rgx}))
	s.NotMatches(s.mtchr.Match(M{"s": 12}, M{"s": M{"$regex": rgx}}))
	s.NotMatches(s.mtchr.Match(M{}, M{"s": M{"$regex": rgx}}))
	s.ErrorMatch(s.mtchr.Match(M{"s": "a"}, M{"s": M{"$regex": "a"}}))
}

func (s *MatcherTestSuite) TestOrdering() {
	doc := M{"n": 5, "s": "m", "t": time.UnixMilli(100)}
	s.Matches(s.mtchr.Match(doc, M{"n": M{"$lt": 6}}))
	s.NotMatches(s.mtchr.Match(doc, M{"n": M{"$lt": 5}}))
	s.Matches(s.mtchr.Match(doc, M{"n": M{"$lte": 5}}))
	s.Matches(s.mtchr.Match(doc, M{"n": M{"$gt": 4.5}}))
	s.NotMatches(s.mtchr.Match(doc, M{"n": M{"$gt": 5}}))
	s.Matches(s.mtchr.Match(doc, M{"n": M{"$gte": 5, "$lte": 5}}))
	s.Matches(s.mtchr.Match(doc, M{"s": M{"$gt": "a"}}))
	s.Matches(s.mtchr.Match(doc, M{"t": M{"$lt": time.UnixMilli(200)}}))

	// values of different types are never ordered
	s.NotMatches(s.mtchr.Match(doc, M{"n": M{"$lt": "z"}}))
	s.NotMatches(s.mtchr.Match(doc, M{"missing": M{"$lt": 10}}))

	// any item of a list
	s.Matches(s.mtchr.Match(M{"l": A{1, 10}}, M{"l": M{"$gt": 8}}))
}

func (s *MatcherTestSuite) TestNe() {
	s.Matches(s.mtchr.Match(M{"a": 1}, M{"a": M{"$ne": 2}}))
	s.NotMatches(s.mtchr.Match(M{"a": 1}, M{"a": M{"$ne": 1}}))
	s.Matches(s.mtchr.Match(M{}, M{"a": M{"$ne": 1}}))
	s.NotMatches(s.mtchr.Match(M{"a": A{1, 2}}, M{"a": M{"$ne": 2}}))
}

func (s *MatcherTestSuite) TestInAndNin() {
	s.Matches(s.mtchr.Match(M{"a": 2}, M{"a": M{"$in": A{1, 2}}}))
	s.Matches(s.mtchr.Match(M{"a": 2}, M{"a": M{"$in": []int{1, 2}}}))
	s.NotMatches(s.mtchr.Match(M{"a": 3}, M{"a": M{"$in": A{1, 2}}}))
	s.Matches(s.mtchr.Match(M{"a": A{5, 2}}, M{"a": M{"$in": A{1, 2}}}))
	s.NotMatches(s.mtchr.Match(M{"a": 2}, M{"a": M{"$nin": A{1, 2}}}))
	s.Matches(s.mtchr.Match(M{"a": 3}, M{"a": M{"$nin": A{1, 2}}}))
	s.Matches(s.mtchr.Match(M{}, M{"a": M{"$nin": A{1, 2}}}))
	s.ErrorMatch(s.mtchr.Match(M{"a": 2}, M{"a": M{"$in": 2}}))
	s.ErrorMatch(s.mtchr.Match(M{"a": 2}, M{"a": M{"$nin": 2}}))
}

func (s *MatcherTestSuite) TestExistsAndSize() {
	s.Matches(s.mtchr.Match(M{"a": nil}, M{"a": M{"$exists": true}}))
	s.NotMatches(s.mtchr.Match(M{}, M{"a": M{"$exists": true}}))
	s.Matches(s.mtchr.Match(M{}, M{"a": M{"$exists": false}}))
	s.ErrorMatch(s.mtchr.Match(M{}, M{"a": M{"$exists": 1}}))

	s.Matches(s.mtchr.Match(M{"a": A{1, 2}}, M{"a": M{"$size": 2}}))
	s.NotMatches(s.mtchr.Match(M{"a": A{1, 2}}, M{"a": M{"$size": 3}}))
	s.ErrorMatch(s.mtchr.Match(M{"a": A{1, 2}}, M{"a": M{"$size": 1.5}}))
}

func (s *MatcherTestSuite) TestLogicalOperators() {
	doc := M{"a": 1, "b": 2}
	s.Matches(s.mtchr.Match(doc, M{"$and": A{M{"a": 1}, M{"b": 2}}}))
	s.NotMatches(s.mtchr.Match(doc, M{"$and": A{M{"a": 1}, M{"b": 3}}}))
	s.Matches(s.mtchr.Match(doc, M{"$or": A{M{"a": 5}, M{"b": 2}}}))
	s.NotMatches(s.mtchr.Match(doc, M{"$or": A{M{"a": 5}, M{"b": 3}}}))
	s.Matches(s.mtchr.Match(doc, M{"$not": M{"a": 5}}))
	s.Matches(s.mtchr.Match(doc, M{"$or": A{M{"$and": A{M{"a": 1}, M{"b": 2}}}, M{"a": 9}}}))

	s.ErrorMatch(s.mtchr.Match(doc, M{"$and": M{}}))
	s.ErrorMatch(s.mtchr.Match(doc, M{"$or": 1}))
}

func (s *MatcherTestSuite) TestInvalidQueries() {
	_, err := s.mtchr.Match(M{"a": 1}, M{"$nor": A{}})
	s.ErrorAs(err, &ErrUnknownOperator{})

	_, err = s.mtchr.Match(M{"a": 1}, M{"a": M{"$foo": 1}})
	s.ErrorAs(err, &ErrUnknownOperator{})

	_, err = s.mtchr.Match(M{"a": 1}, M{"$and": A{}, "a": 1})
	s.ErrorIs(err, ErrMixedOperators)

	_, err = s.mtchr.Match(M{"a": 1}, M{"a": M{"$gt": 1, "b": 1}})
	s.ErrorIs(err, ErrMixedOperators)
}

func (s *MatcherTestSuite) TestElemMatch() {
	doc := M{"items": A{
		M{"name": "a", "qty": 1},
		M{"name": "b", "qty": 10},
	}}
	s.Matches(s.mtchr.Match(doc, M{"items": M{"$elemMatch": M{"name": "b", "qty": M{"$gt": 5}}}}))
	// both conditions must hold for the same item
	s.NotMatches(s.mtchr.Match(doc, M{"items": M{"$elemMatch": M{"name": "a", "qty": M{"$gt": 5}}}}))
	s.Matches(s.mtchr.Match(doc, M{"items": M{"$elemMatch": M{"$or": A{M{"name": "z"}, M{"qty": 1}}}}}))
	s.NotMatches(s.mtchr.Match(M{"items": "a"}, M{"items": M{"$elemMatch": M{"name": "a"}}}))

	// primitive items
	s.Matches(s.mtchr.Match(M{"n": A{1, 7}}, M{"n": M{"$elemMatch": M{"$gt": 5}}}))
}

func (s *MatcherTestSuite) TestNear() {
	// roughly 1.1km apart
	center := M{"type": "Point", "coordinates": A{-46.6333, -23.5505}}
	doc := M{"loc": M{"type": "Point", "coordinates": A{-46.6333, -23.5405}}}

	s.Matches(s.mtchr.Match(doc, M{"loc": M{"$near": M{"$geometry": center, "$maxDistance": 2000.0, "$minDistance": 0.0}}}))
	s.NotMatches(s.mtchr.Match(doc, M{"loc": M{"$near": M{"$geometry": center, "$maxDistance": 500.0}}}))
	s.NotMatches(s.mtchr.Match(doc, M{"loc": M{"$near": M{"$geometry": center, "$minDistance": 5000}}}))
	s.Matches(s.mtchr.Match(M{"loc": A{-46.6333, -23.5505}}, M{"loc": M{"$near": M{"$geometry": center, "$maxDistance": 1}}}))
	s.NotMatches(s.mtchr.Match(M{"loc": "here"}, M{"loc": M{"$near": M{"$geometry": center}}}))

	s.ErrorMatch(s.mtchr.Match(doc, M{"loc": M{"$near": 1}}))
	s.ErrorMatch(s.mtchr.Match(doc, M{"loc": M{"$near": M{"$geometry": M{"type": "Polygon"}}}}))
	s.ErrorMatch(s.mtchr.Match(doc, M{"loc": M{"$near": M{"$geometry": center, "$maxDistance": "far"}}}))
}

func (s *MatcherTestSuite) TestDistance() {
	// one degree of longitude at the equator
	s.InDelta(111319.5, distance([2]float64{0, 0}, [2]float64{1, 0}), 1)
	s.Zero(distance([2]float64{10, 10}, [2]float64{10, 10}))
}

func (s *MatcherTestSuite) TestFieldNavigatorErrors() {
	fail := errors.New("fail")
	fn := new(fieldNavigatorMock)
	s.mtchr = NewMatcher(WithFieldNavigator(fn)).(*Matcher)

	fn.On("GetAddress", "a").Return([]string{}, fail).Once()
	s.ErrorMatch(s.mtchr.Match(M{"a": 1}, M{"a": 1}))

	fn.On("GetAddress", "b").Return([]string{"b"}, nil).Once()
	fn.On("GetField", M{"b": 1}, []string{"b"}).Return([]domain.GetSetter{}, false, fail).Once()
	s.ErrorMatch(s.mtchr.Match(M{"b": 1}, M{"b": 1}))

	fn.AssertExpectations(s.T())
}

func (s *MatcherTestSuite) TestComparerErrors() {
	fail := errors.New("fail")
	cmp := new(comparerMock)
	s.mtchr = NewMatcher(WithComparer(cmp)).(*Matcher)

	cmp.On("Compare", mock.Anything, 1).Return(0, fail).Once()
	s.ErrorMatch(s.mtchr.Match(M{"a": 1}, M{"a": 1}))

	cmp.On("Comparable", mock.Anything, 2).Return(true).Once()
	cmp.On("Compare", mock.Anything, 2).Return(0, fail).Once()
	s.ErrorMatch(s.mtchr.Match(M{"a": 1}, M{"a": M{"$gt": 2}}))

	cmp.AssertExpectations(s.T())
}

func (s *MatcherTestSuite) TestDocumentFactoryError() {
	fail := errors.New("fail")
	s.mtchr = NewMatcher(WithDocumentFactory(func(any) (domain.Document, error) {
		return nil, fail
	})).(*Matcher)
	s.ErrorMatch(s.mtchr.Match(1, M{"$gt": 0}))
}

func (s *MatcherTestSuite) Matches(matches bool, err error) {
	s.NoError(err)
	s.True(matches)
}

func (s *MatcherTestSuite) NotMatches(matches bool, err error) {
	s.NoError(err)
	s.False(matches)
}

func (s *MatcherTestSuite) ErrorMatch(_ bool, err error) {
	s.Error(err)
}

func (s *MatcherTestSuite) SetupTest() {
	s.mtchr = NewMatcher().(*Matcher)
}

func TestMatcherTestSuite(t *testing.T) {
	suite.Run(t, new(MatcherTestSuite))
}
