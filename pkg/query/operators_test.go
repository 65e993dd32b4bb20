package query_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/restquery/pkg/query"
)

var _ = Describe("ApplyFieldFilters", func() {
	var where *query.Where

	BeforeEach(func() {
		where = &query.Where{}
	})

	It("should compose equality, list and range operators per column", func() {
		params := query.Params{
			"name":    "hello",
			"names":   "a,b,c",
			"age_gte": 20,
			"age_lte": "30",
		}

		query.ApplyFieldFilters(params, "name", where, "name")
		query.ApplyFieldFilters(params, "age", where, "age")

		Expect(where.Fields).To(Equal(map[string]query.Condition{
			"name": {query.OpEq: "hello", query.OpIn: []string{"a", "b", "c"}},
			"age":  {query.OpGte: 20, query.OpLte: "30"},
		}))
	})

	type testCase struct {
		params   query.Params
		expected query.Condition
	}

	tests := map[string]testCase{
		"equals is trimmed":           {query.Params{"name": "  bob "}, query.Condition{query.OpEq: "bob"}},
		"equals .null. is nil":        {query.Params{"name": ".null."}, query.Condition{query.OpEq: nil}},
		"equals keeps numbers":        {query.Params{"name": 7}, query.Condition{query.OpEq: 7}},
		"not equals":                  {query.Params{"name!": " x "}, query.Condition{query.OpNe: "x"}},
		"not equals .null. is nil":    {query.Params{"name!": ".null."}, query.Condition{query.OpNe: nil}},
		"in trims every entry":        {query.Params{"names": " a , b"}, query.Condition{query.OpIn: []string{"a", "b"}}},
		"in accepts repeated keys":    {query.Params{"names": []string{"a ", " b"}}, query.Condition{query.OpIn: []string{"a", "b"}}},
		"not in":                      {query.Params{"names!": "a,b"}, query.Condition{query.OpNotIn: []string{"a", "b"}}},
		"like rewrites stars":         {query.Params{"name_like": " *bo*b "}, query.Condition{query.OpLike: "%bo%b"}},
		"not like rewrites stars":     {query.Params{"name_notLike": "bo*"}, query.Condition{query.OpNotLike: "bo%"}},
		"greater than":                {query.Params{"name_gt": " 3 "}, query.Condition{query.OpGt: "3"}},
		"less than keeps numbers":     {query.Params{"name_lt": 3.5}, query.Condition{query.OpLt: 3.5}},
		"lower and upper bound":       {query.Params{"name_gte": 1, "name_lte": 9}, query.Condition{query.OpGte: 1, query.OpLte: 9}},
		"every operator at once":      {query.Params{"name": "a", "name!": "b", "name_like": "c"}, query.Condition{query.OpEq: "a", query.OpNe: "b", query.OpLike: "c"}},
	}

	for name, test := range tests {
		test := test
		It("should handle "+name, func() {
			query.ApplyFieldFilters(test.params, "name", where, "")
			Expect(where.Fields).To(HaveKeyWithValue("name", test.expected))
		})
	}

	It("should write to the target column", func() {
		query.ApplyFieldFilters(query.Params{"owner": "x"}, "owner", where, "creatorId")
		Expect(where.Fields).To(HaveKey("creatorId"))
		Expect(where.Fields).NotTo(HaveKey("owner"))
	})

	It("should ignore unknown and malformed parameters", func() {
		params := query.Params{
			"other":      "x",
			"name!":      []string{"a"},
			"name_like":  12,
			"name_gt":    []string{"1"},
			"name_bogus": "1",
		}
		query.ApplyFieldFilters(params, "name", where, "name")
		Expect(where.IsEmpty()).To(BeTrue())
	})

	It("should tolerate nil params", func() {
		query.ApplyFieldFilters(nil, "name", where, "name")
		Expect(where.IsEmpty()).To(BeTrue())
	})
})
