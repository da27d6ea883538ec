package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

func crit(field string, op domain.Operator, val any) *domain.Criterion {
	return domain.NewCriterion(field, op, val)
}

type visitorMock struct{ mock.Mock }

func (v *visitorMock) VisitFieldSet(o domain.FieldSetOp) error     { return v.Called(o).Error(0) }
func (v *visitorMock) VisitFieldUnset(o domain.FieldUnsetOp) error { return v.Called(o).Error(0) }
func (v *visitorMock) VisitPush(o domain.PushOp) error             { return v.Called(o).Error(0) }
func (v *visitorMock) VisitPushMulti(o domain.PushMultiOp) error   { return v.Called(o).Error(0) }
func (v *visitorMock) VisitAddToSet(o domain.AddToSetOp) error     { return v.Called(o).Error(0) }
func (v *visitorMock) VisitAddToSetMulti(o domain.AddToSetMultiOp) error {
	return v.Called(o).Error(0)
}
func (v *visitorMock) VisitIncrement(o domain.IncOp) error { return v.Called(o).Error(0) }
func (v *visitorMock) VisitDecrement(o domain.DecOp) error { return v.Called(o).Error(0) }
func (v *visitorMock) VisitRemove(o domain.RemoveOp) error { return v.Called(o).Error(0) }

type DomainTestSuite struct {
	suite.Suite
}

func (s *DomainTestSuite) TestOperatorTokens() {
	s.Equal("=", domain.Eq.String())
	s.Equal("equalsIgnoreCase", domain.EqIgnoreCase.String())
	s.Equal("notIn", domain.NotIn.String())
	s.Equal("elementMatch", domain.ElemMatch.String())
	s.Equal("near", domain.Near.String())
	s.Equal("Operator(0)", domain.Operator(0).String())
	s.False(domain.Operator(0).Valid())
	s.Len(domain.Operators(), 13)
	for _, op := range domain.Operators() {
		s.True(op.Valid())
	}
	s.Equal("and", domain.And.String())
	s.Equal("or", domain.Or.String())
}

func (s *DomainTestSuite) TestClassify() {
	s.Equal(domain.LopUnset, domain.ClassifyAll(nil))
	s.Equal(domain.LopAndOnly, domain.ClassifyAll([]domain.Combinator{domain.And, domain.And}))
	s.Equal(domain.LopOrOnly, domain.ClassifyAll([]domain.Combinator{domain.Or, domain.Or}))
	s.Equal(domain.LopMixed, domain.ClassifyAll([]domain.Combinator{domain.And, domain.Or}))
	s.Equal(domain.LopMixed, domain.ClassifyAll([]domain.Combinator{domain.Or, domain.And, domain.And}))
	s.Equal(domain.LopMixed, domain.Classify(domain.LopMixed, domain.And))
	s.Equal(domain.LopAndOnly, domain.Classify(domain.LopAndOnly, domain.Combinator(9)))
}

func (s *DomainTestSuite) TestCriterionRender() {
	c := crit("a", domain.Eq, "b")
	s.Equal("(a=b)", c.Render())
	s.Equal("(a=<v>)", c.RenderTemplated())

	c.WithField("age").WithOperator(domain.Gte).WithValue(18)
	s.Equal("age", c.Field())
	s.Equal(domain.Gte, c.Operator())
	s.Equal(18, c.Value())
	s.Equal("(age>=18)", c.Render())
}

func (s *DomainTestSuite) TestNestedRender() {
	nested := domain.NewQuery(domain.NewCriteriaGroup(crit("name", domain.Eq, "x")))
	c := crit("items", domain.ElemMatch, nested)
	s.Equal("(itemselementMatch(((name=x))))", c.Render())
	s.Equal("(itemselementMatch<v>)", c.RenderTemplated())
}

func (s *DomainTestSuite) TestGroupAndQueryRender() {
	g1 := domain.NewCriteriaGroup(crit("a", domain.Eq, "b")).And(crit("c", domain.Gt, "d"))
	g2 := domain.NewCriteriaGroup(crit("a", domain.Eq, "b")).Or(crit("c", domain.Gt, "d"))
	q := domain.NewQuery(g1).And(g2)

	s.Equal("((a=b)and(c>d))", g1.Render())
	s.Equal("(((a=b)and(c>d))and((a=b)or(c>d)))", q.Render())
	s.Equal("(((a=<v>)and(c><v>))and((a=<v>)or(c><v>)))", q.RenderTemplated())
}

func (s *DomainTestSuite) TestGroupAccessorsCopy() {
	g := domain.NewCriteriaGroup(crit("a", domain.Eq, 1)).Or(crit("b", domain.Eq, 2))
	cs := g.Criteria()
	cs[0] = nil
	combs := g.Combinators()
	combs[0] = domain.And
	s.NotNil(g.Criteria()[0])
	s.Equal([]domain.Combinator{domain.Or}, g.Combinators())
	s.Equal(domain.LopOrOnly, g.Content())
	s.Equal(2, g.Len())
}

func (s *DomainTestSuite) TestPagination() {
	q := domain.NewQuery(domain.NewCriteriaGroup(crit("a", domain.Eq, 1)))

	s.NoError(q.SetPageSize(0))
	s.NoError(q.SetPageNumber(0))

	err := q.SetPageSize(-1)
	s.ErrorIs(err, domain.ErrInvalidArgument)
	var pv domain.ErrPageValue
	s.ErrorAs(err, &pv)
	s.Equal(-1, pv.Value)
	s.ErrorIs(q.SetPageNumber(-3), domain.ErrInvalidArgument)

	s.NoError(q.SetPageSize(5))
	s.Equal(5, q.PageSize())
	s.Zero(q.PageNumber())
}

func (s *DomainTestSuite) TestQueryFieldsAndOrder() {
	q := domain.NewQuery(domain.NewCriteriaGroup(crit("a", domain.Eq, 1)))
	s.Equal([]string{}, q.Fields())

	fields := []string{"a", "b"}
	q.SetFields(fields...)
	fields[0] = "z"
	s.Equal([]string{"a", "b"}, q.Fields())

	q.OrderBy(domain.NewOrderBy("a")).OrderBy(domain.NewOrderBy("b").Desc())
	s.Equal([]domain.OrderBy{
		{Field: "a", Direction: domain.Asc},
		{Field: "b", Direction: domain.Desc},
	}, q.OrderBys())

	q.SetReadPreference(domain.Nearest)
	s.Equal(domain.Nearest, q.ReadPreference())
}

func (s *DomainTestSuite) TestParseReadPreference() {
	for _, name := range []string{"primary", "primaryPreferred", "secondary", "secondaryPreferred", "nearest"} {
		rp, err := domain.ParseReadPreference(name)
		s.NoError(err)
		s.Equal(name, rp.String())
	}
	_, err := domain.ParseReadPreference("fastest")
	s.ErrorIs(err, domain.ErrInvalidArgument)
	s.Equal("", domain.ReadPreferenceUnset.String())
}

func (s *DomainTestSuite) TestTraverseOrder() {
	v := new(visitorMock)
	u := domain.NewUpdates().
		AddIncr("hits").
		AddFieldSet("x", "y").
		AddDecrBy("dunks", 3)

	first := v.On("VisitIncrement", domain.IncOp{Field: "hits", By: 1}).Return(nil).Once()
	second := v.On("VisitFieldSet", domain.FieldSetOp{Field: "x", Val: "y"}).Return(nil).Once().NotBefore(first)
	v.On("VisitDecrement", domain.DecOp{Field: "dunks", By: 3}).Return(nil).Once().NotBefore(second)

	s.NoError(u.Traverse(v))
	s.Equal(3, u.Len())
	v.AssertExpectations(s.T())
}

func (s *DomainTestSuite) TestTraverseEveryVariant() {
	v := new(visitorMock)
	u := domain.NewUpdates().
		AddFieldUnset("a").
		AddListAppend("b", 1).
		AddListAppendMulti("c", 1, 2).
		AddSetAppend("d", 3).
		AddSetAppendMulti("e", 4, 5).
		AddRemoveOp("f.g", 6)

	v.On("VisitFieldUnset", domain.FieldUnsetOp{Field: "a"}).Return(nil).Once()
	v.On("VisitPush", domain.PushOp{Field: "b", Val: 1}).Return(nil).Once()
	v.On("VisitPushMulti", domain.PushMultiOp{Field: "c", Vals: []any{1, 2}}).Return(nil).Once()
	v.On("VisitAddToSet", domain.AddToSetOp{Field: "d", Val: 3}).Return(nil).Once()
	v.On("VisitAddToSetMulti", domain.AddToSetMultiOp{Field: "e", Vals: []any{4, 5}}).Return(nil).Once()
	v.On("VisitRemove", domain.RemoveOp{Field: "f.g", Val: 6}).Return(nil).Once()

	s.NoError(u.Traverse(v))
	v.AssertExpectations(s.T())
}

func (s *DomainTestSuite) TestTraverseStopsAtError() {
	v := new(visitorMock)
	u := domain.NewUpdates().AddFieldSet("a", 1).AddFieldSet("b", 2)
	fail := errors.New("fail")
	v.On("VisitFieldSet", domain.FieldSetOp{Field: "a", Val: 1}).Return(fail).Once()

	s.ErrorIs(u.Traverse(v), fail)
	v.AssertExpectations(s.T())
	v.AssertNotCalled(s.T(), "VisitFieldSet", domain.FieldSetOp{Field: "b", Val: 2})
}

func (s *DomainTestSuite) TestErrorKinds() {
	s.ErrorIs(domain.ErrPagination{PageSize: 5}, domain.ErrInvalidArgument)
	s.ErrorIs(domain.ErrOperatorValue{Operator: domain.In}, domain.ErrInvalidArgument)
	s.ErrorIs(domain.ErrUnknownOperator{}, domain.ErrInvalidArgument)
	s.ErrorIs(domain.ErrCombinatorCount{Items: 2}, domain.ErrInvalidArgument)
	s.ErrorIs(domain.ErrRemoveField{Field: "."}, domain.ErrInvalidArgument)
	s.ErrorIs(domain.ErrUnsupported{Operation: "distinct"}, domain.ErrUnsupportedOperation)
	s.NotErrorIs(domain.ErrUnsupported{}, domain.ErrInvalidArgument)
}

func TestDomainTestSuite(t *testing.T) {
	suite.Run(t, new(DomainTestSuite))
}

func combinatorsGen() gopter.Gen {
	return gen.SliceOf(gen.Bool()).Map(func(bs []bool) []domain.Combinator {
		res := make([]domain.Combinator, len(bs))
		for n, b := range bs {
			res[n] = domain.Or
			if b {
				res[n] = domain.And
			}
		}
		return res
	})
}

func TestSequenceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("group keeps one combinator less than criteria", prop.ForAll(
		func(combs []domain.Combinator) bool {
			g := domain.NewCriteriaGroup(crit("f0", domain.Eq, 0))
			for _, c := range combs {
				if c == domain.And {
					g.And(crit("f", domain.Eq, 1))
				} else {
					g.Or(crit("f", domain.Eq, 1))
				}
				if len(g.Combinators()) != g.Len()-1 {
					return false
				}
			}
			return true
		},
		combinatorsGen(),
	))

	properties.Property("query content equals a rescan", prop.ForAll(
		func(combs []domain.Combinator) bool {
			q := domain.NewQuery(domain.NewCriteriaGroup(crit("f", domain.Eq, 0)))
			for n, c := range combs {
				g := domain.NewCriteriaGroup(crit("f", domain.Eq, 1))
				if c == domain.And {
					q.And(g)
				} else {
					q.Or(g)
				}
				if q.Content() != domain.ClassifyAll(combs[:n+1]) {
					return false
				}
			}
			return len(q.Groups()) == len(q.Combinators())+1
		},
		combinatorsGen(),
	))

	properties.Property("templated render never leaks values", prop.ForAll(
		func(combs []domain.Combinator, secret string) bool {
			value := "secret-" + secret
			g := domain.NewCriteriaGroup(crit("f", domain.Eq, value))
			for _, c := range combs {
				if c == domain.And {
					g.And(crit("f", domain.Contains, value))
				} else {
					g.Or(crit("f", domain.Ne, value))
				}
			}
			q := domain.NewQuery(g)
			return !strings.Contains(q.RenderTemplated(), value) &&
				strings.Contains(q.Render(), value)
		},
		combinatorsGen(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
