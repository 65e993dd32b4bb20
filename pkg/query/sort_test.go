package query_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/restquery/pkg/query"
)

var _ = Describe("ResolveSort", func() {
	cfg := &query.SortConfig{Default: "id", DefaultDirection: "desc", Allow: []string{"id", "name"}}

	DescribeTable("should resolve",
		func(params query.Params, cfg *query.SortConfig, expected []query.Order) {
			Expect(query.ResolveSort(params, cfg)).To(Equal(expected))
		},
		Entry("nothing without a config", query.Params{"sort": "name"}, nil, nil),
		Entry("the default", query.Params{}, cfg, []query.Order{{Field: "id", Direction: query.Desc}}),
		Entry("the default with an ascending fallback",
			query.Params{}, &query.SortConfig{Default: "name"}, []query.Order{{Field: "name", Direction: query.Asc}}),
		Entry("nothing without a default", query.Params{}, &query.SortConfig{Allow: []string{"id"}}, nil),
		Entry("an ascending field", query.Params{"sort": "name"}, cfg, []query.Order{{Field: "name", Direction: query.Asc}}),
		Entry("a descending field", query.Params{"sort": "-name"}, cfg, []query.Order{{Field: "name", Direction: query.Desc}}),
		Entry("nothing for a field outside the allow list", query.Params{"sort": "-email"}, cfg, nil),
		Entry("nothing for a bare minus", query.Params{"sort": "-"}, cfg, nil),
	)
})
