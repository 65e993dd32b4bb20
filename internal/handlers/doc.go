// Package handlers implements the HTTP API of the query service.
//
// Handlers turn the raw query string into query.Params, delegate to the
// services layer and map errors to HTTP status codes. They never inspect
// parameters themselves: every parameter is interpreted by the compiler.
//
// # API Endpoints
//
//	┌────────┬─────────────────────────────┬──────────────────────────────────────┐
//	│ Method │ Endpoint                    │ Description                          │
//	├────────┼─────────────────────────────┼──────────────────────────────────────┤
//	│ GET    │ /entities                   │ Names of the declared entities       │
//	│ GET    │ /:entity                    │ Filtered, sorted, paginated rows     │
//	│ GET    │ /:entity/statistics         │ Grouped metrics, format=xlsx export  │
//	│ GET    │ /:entity/:id                │ One row by primary key               │
//	└────────┴─────────────────────────────┴──────────────────────────────────────┘
//
// List and statistics responses carry the X-Content-Record-Total header unless
// the request sets _ignoreTotal=yes. A row whose key is "statistics" cannot be
// fetched by id.
//
// # Error Mapping
//
//	┌──────────────────────────┬────────┐
//	│ Error                    │ Status │
//	├──────────────────────────┼────────┤
//	│ query.ValidationError    │ 400    │
//	│ EntityNotFoundError      │ 404    │
//	│ ResourceNotFoundError    │ 404    │
//	│ anything else            │ 500    │
//	└──────────────────────────┴────────┘
//
// 500 responses carry a generic message; the cause is logged.
package handlers
