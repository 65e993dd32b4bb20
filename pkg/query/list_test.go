package query_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/restquery/pkg/query"
)

var _ = Describe("BuildListQuery", func() {
	var user *query.Schema

	BeforeEach(func() {
		user = newUserSchema()
	})

	It("should compile operator filters over the filterable columns", func() {
		user.SoftDelete = ""
		d := query.BuildListQuery(user, query.Params{
			"name":    "hello",
			"names":   "a,b,c",
			"age_gte": 20,
			"age_lte": "30",
			"isDelete": "yes",
		})

		Expect(d.Where.Fields).To(Equal(map[string]query.Condition{
			"name": {query.OpEq: "hello", query.OpIn: []string{"a", "b", "c"}},
			"age":  {query.OpGte: 20, query.OpLte: "30"},
		}))
	})

	It("should default the filterable columns to every column", func() {
		user.FilterAttrs = nil
		d := query.BuildListQuery(user, query.Params{"isDelete": "yes", "showDelete": "yes"})
		Expect(d.Where.Fields).To(HaveKeyWithValue("isDelete", query.Condition{query.OpEq: "yes"}))
	})

	Describe("soft delete", func() {
		It("should only list live rows by default", func() {
			d := query.BuildListQuery(user, query.Params{})
			Expect(d.Where.Fields).To(HaveKeyWithValue("isDelete", query.Condition{query.OpEq: query.NotDeleted}))
		})

		DescribeTable("should list every row when showDelete is set",
			func(value any) {
				d := query.BuildListQuery(user, query.Params{"showDelete": value})
				Expect(d.Where).To(BeNil())
			},
			Entry("as yes", "yes"),
			Entry("as 1", "1"),
			Entry("as 0", "0"),
			Entry("as a boolean", true),
			Entry("as a number", 1),
		)

		It("should let optional associations be absent", func() {
			d := query.BuildListQuery(user, query.Params{"includes": "team"})
			Expect(d.Include).To(HaveLen(1))

			sql, args, err := d.Include[0].Where.Sqlizer("team").ToSql()
			Expect(err).NotTo(HaveOccurred())
			Expect(sql).To(Equal(`("team"."isDelete" = ? OR "team"."id" IS NULL)`))
			Expect(args).To(Equal([]any{"no"}))
		})

		It("should require the marker on required associations", func() {
			user.Includes["team"].Required = true
			d := query.BuildListQuery(user, query.Params{"includes": "team"})

			sql, _, err := d.Include[0].Where.Sqlizer("team").ToSql()
			Expect(err).NotTo(HaveOccurred())
			Expect(sql).To(Equal(`"team"."isDelete" = ?`))
		})

		It("should not filter associations when showDelete is set", func() {
			d := query.BuildListQuery(user, query.Params{"includes": "team", "showDelete": "yes"})
			Expect(d.Include[0].Where).To(BeNil())
		})
	})

	Describe("associations", func() {
		It("should apply nested filters from a map", func() {
			d := query.BuildListQuery(user, query.Params{
				"includes":   "team",
				"showDelete": "yes",
				"team":       map[string]any{"name_like": "dev*"},
			})
			Expect(d.Include[0].Where.Fields).To(Equal(map[string]query.Condition{
				"name": {query.OpLike: "dev%"},
			}))
		})

		It("should apply nested filters from prefixed keys", func() {
			d := query.BuildListQuery(user, query.Params{
				"includes":   "team",
				"showDelete": "yes",
				"team.ids":   "1,2",
			})
			Expect(d.Include[0].Where.Fields).To(Equal(map[string]query.Condition{
				"id": {query.OpIn: []string{"1", "2"}},
			}))
		})

		It("should project the allowed include columns", func() {
			d := query.BuildListQuery(user, query.Params{"includes": "team"})
			Expect(d.Include[0].Attributes).To(Equal([]string{"id", "name"}))
		})

		It("should never write to the schema", func() {
			query.BuildListQuery(user, query.Params{"includes": "team", "team.name": "x"})
			Expect(user.Includes["team"].Where).To(BeNil())
			Expect(user.Includes["team"].Attributes).To(BeNil())
		})
	})

	Describe("search", func() {
		It("should AND the merged search into the where clause", func() {
			d := query.BuildListQuery(user, query.Params{"q": "a b", "showDelete": "yes"})
			Expect(d.Where.Raw).To(HaveLen(1))
			Expect(d.Where.Raw[0].SQL).To(Equal(
				`((("user"."name" LIKE '%a%') OR ("user"."email" LIKE '%a%')) AND (("user"."name" LIKE '%b%') OR ("user"."email" LIKE '%b%')))`,
			))
		})

		It("should search associations listed in _searchs", func() {
			d := query.BuildListQuery(user, query.Params{
				"q":          "a",
				"includes":   "team",
				"_searchs":   "name,team.name",
				"showDelete": "yes",
			})
			Expect(d.Where.Raw[0].SQL).To(Equal(`((("user"."name" LIKE '%a%') OR ("team"."name" LIKE '%a%')))`))
		})
	})

	Describe("sort and pagination", func() {
		It("should resolve the sort", func() {
			d := query.BuildListQuery(user, query.Params{"sort": "-age"})
			Expect(d.Order).To(Equal([]query.Order{{Field: "age", Direction: query.Desc}}))
		})

		It("should clamp the page with the schema pagination", func() {
			d := query.BuildListQuery(user, query.Params{"startIndex": "9999", "maxResults": "9999"})
			Expect(*d.Offset).To(Equal(500))
			Expect(*d.Limit).To(Equal(100))
		})

		It("should omit the page for all rows", func() {
			d := query.BuildListQuery(user, query.Params{"maxResults": "5"}, query.WithAllRows())
			Expect(d.Offset).To(BeNil())
			Expect(d.Limit).To(BeNil())
		})
	})

	DescribeTable("projection",
		func(attrs any, expected []string) {
			d := query.BuildListQuery(user, query.Params{"attrs": attrs})
			Expect(d.Attributes).To(Equal(expected))
		},
		Entry("keeps real columns", "id,name", []string{"id", "name"}),
		Entry("drops unknown columns", "id,password,name,id", []string{"id", "name"}),
		Entry("is unrestricted when nothing is left", "password", nil),
		Entry("ignores non string values", []string{"id"}, nil),
	)
})

var _ = Describe("BuildDetailQuery", func() {
	It("should look up one live row by primary key", func() {
		user := newUserSchema()
		d := query.BuildDetailQuery(user, "42", query.Params{"attrs": "id,email", "includes": "team", "name": "ignored"})

		Expect(d.Where.Fields).To(Equal(map[string]query.Condition{
			"id":       {query.OpEq: "42"},
			"isDelete": {query.OpEq: query.NotDeleted},
		}))
		Expect(*d.Limit).To(Equal(1))
		Expect(d.Attributes).To(Equal([]string{"id", "email"}))
		Expect(d.Include).To(HaveLen(1))
		Expect(d.Include[0].Where.Any).To(HaveLen(2))
	})
})

var _ = Describe("FilterRows", func() {
	It("should keep allowed keys only", func() {
		rows := []map[string]any{{"id": 1, "name": "a", "secret": "x"}}
		Expect(query.FilterRows(rows, []string{"id", "name", "missing"})).To(Equal([]map[string]any{{"id": 1, "name": "a"}}))
		Expect(query.FilterRows(rows, nil)).To(Equal(rows))
	})
})
