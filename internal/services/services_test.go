package services_test

import (
	"context"
	"database/sql"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cast"

	"github.com/kubev2v/restquery/internal/models"
	"github.com/kubev2v/restquery/internal/registry"
	"github.com/kubev2v/restquery/internal/services"
	"github.com/kubev2v/restquery/internal/store"
	srvErrors "github.com/kubev2v/restquery/pkg/errors"
	"github.com/kubev2v/restquery/pkg/query"
)

const schemaYAML = `
entities:
  - name: team
    table: teams
    columns:
      - {name: id, type: number}
      - {name: name}
  - name: book
    table: books
    columns:
      - {name: id, type: number}
      - {name: title}
      - {name: genre, type: enum}
      - {name: pages, type: number}
      - {name: teamId, type: number}
      - {name: secret}
      - {name: isDelete, type: enum}
    filterAttrs: [id, title, genre, pages]
    search:
      - {column: title, match: ["%{1}%"]}
    includes:
      - {as: team, entity: team}
    sort: {default: id, allow: [id, pages]}
    softDelete: isDelete
    allowAttrs: [id, title, genre, pages, team]
    stats:
      dimensions:
        genre: '"book"."genre"'
      metrics:
        count: COUNT(*)
        totalPages: SUM("book"."pages")
`

const booksSQL = `
CREATE TABLE teams ("id" INTEGER, "name" VARCHAR);
CREATE TABLE books (
	"id" INTEGER,
	"title" VARCHAR,
	"genre" VARCHAR,
	"pages" INTEGER,
	"teamId" INTEGER,
	"secret" VARCHAR,
	"isDelete" VARCHAR
);
INSERT INTO teams VALUES (1, 'red');
INSERT INTO books VALUES
	(1, 'Dune', 'scifi', 412, 1, 's1', 'no'),
	(2, 'Emma', 'novel', 474, NULL, 's2', 'no'),
	(3, 'Neuromancer', 'scifi', 271, 1, 's3', 'no'),
	(4, 'Ulysses', 'novel', 730, NULL, 's4', 'yes');
`

var _ = Describe("Services", func() {
	var (
		ctx   context.Context
		db    *sql.DB
		list  *services.ListService
		stats *services.StatisticsService
	)

	BeforeEach(func() {
		ctx = context.Background()

		defs, err := registry.Parse(strings.NewReader(schemaYAML))
		Expect(err).NotTo(HaveOccurred())
		reg, err := registry.New(defs...)
		Expect(err).NotTo(HaveOccurred())

		db, err = store.NewDB(store.DriverDuckDB, store.MemoryPath)
		Expect(err).NotTo(HaveOccurred())
		_, err = db.ExecContext(ctx, booksSQL)
		Expect(err).NotTo(HaveOccurred())

		st := store.NewStore(db)
		list = services.NewListService(reg, st)
		stats = services.NewStatisticsService(reg, st)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("ListService", func() {
		It("should return the page and the total", func() {
			result, err := list.List(ctx, "book", query.Params{"maxResults": "2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalKnown).To(BeTrue())
			Expect(result.Total).To(Equal(3))
			Expect(result.Items).To(HaveLen(2))
		})

		It("should strip attributes outside the whitelist", func() {
			result, err := list.List(ctx, "book", query.Params{"maxResults": "1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Items[0]).To(HaveKey("title"))
			Expect(result.Items[0]).NotTo(HaveKey("secret"))
			Expect(result.Items[0]).NotTo(HaveKey("teamId"))
		})

		It("should narrow rows to attrs, associations included", func() {
			result, err := list.List(ctx, "book", query.Params{"attrs": "title,team", "includes": "team", "maxResults": "1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Items).To(HaveLen(1))
			Expect(result.Items[0]).To(HaveLen(2))
			Expect(result.Items[0]["title"]).To(Equal("Dune"))
			Expect(result.Items[0]["team"]).To(HaveKeyWithValue("name", "red"))
		})

		It("should skip the count on request", func() {
			result, err := list.List(ctx, "book", query.Params{"_ignoreTotal": "yes"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalKnown).To(BeFalse())
			Expect(result.Items).To(HaveLen(3))
		})

		It("should return no rows when the count is zero", func() {
			result, err := list.List(ctx, "book", query.Params{"q": "Hamlet"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalKnown).To(BeTrue())
			Expect(result.Total).To(Equal(0))
			Expect(result.Items).To(BeEmpty())
			Expect(result.Items).NotTo(BeNil())
		})

		It("should fail for unknown entities", func() {
			_, err := list.List(ctx, "film", query.Params{})
			Expect(srvErrors.IsEntityNotFoundError(err)).To(BeTrue())
		})

		It("should get one row", func() {
			row, err := list.Get(ctx, "book", "3", query.Params{})
			Expect(err).NotTo(HaveOccurred())
			Expect(row["title"]).To(Equal("Neuromancer"))
			Expect(row).NotTo(HaveKey("secret"))
		})

		It("should not find soft deleted rows", func() {
			_, err := list.Get(ctx, "book", "4", query.Params{})
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())

			row, err := list.Get(ctx, "book", "4", query.Params{"showDelete": "yes"})
			Expect(err).NotTo(HaveOccurred())
			Expect(row["title"]).To(Equal("Ulysses"))
		})
	})

	Describe("StatisticsService", func() {
		It("should group and count", func() {
			result, err := stats.Run(ctx, "book", query.Params{"dimensions": "genre", "metrics": "count,totalPages", "sort": "-totalPages"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalKnown).To(BeTrue())
			Expect(result.Total).To(Equal(2))
			Expect(result.Columns).To(Equal([]string{"genre", "count", "totalPages"}))
			Expect(result.Rows).To(HaveLen(2))
			Expect(result.Rows[0]["genre"]).To(Equal("scifi"))
			Expect(cast.ToInt(result.Rows[0]["count"])).To(Equal(2))
			Expect(result.Rows[1]["genre"]).To(Equal("novel"))
		})

		It("should apply the extra condition and dynamic expressions", func() {
			result, err := stats.Run(ctx, "book", query.Params{"dimensions": "long", "metrics": "count", "sort": "long"},
				services.WithCondition(query.Raw(`"book"."genre" = ?`, "scifi")),
				services.WithExpressions(&query.Expressions{
					Dimensions: map[string]string{"long": `CASE WHEN "book"."pages" > 300 THEN 'yes' ELSE 'no' END`},
				}),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Rows).To(Equal([]models.Row{
				{"long": "no", "count": int64(1)},
				{"long": "yes", "count": int64(1)},
			}))
		})

		It("should reject unknown metrics before touching the store", func() {
			_, err := stats.Run(ctx, "book", query.Params{"metrics": "count,secret"})
			Expect(query.IsValidationError(err)).To(BeTrue())
		})

		It("should skip the group count on request", func() {
			result, err := stats.Run(ctx, "book", query.Params{"dimensions": "genre", "metrics": "count", "_ignoreTotal": "yes"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalKnown).To(BeFalse())
			Expect(result.Rows).To(HaveLen(2))
		})
	})
})
