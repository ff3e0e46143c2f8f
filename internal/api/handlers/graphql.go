package handlers

import (
	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

type GraphQLHandler struct {
	relay *relay.Handler
}

func NewGraphQLHandler(schema *graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{relay: &relay.Handler{Schema: schema}}
}

// GraphQL godoc
// @Summary GraphQL endpoint
// @Description Executes a query or mutation; auth-only fields read the optional bearer token
// @Tags graphql
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /graphql [post]
func (h *GraphQLHandler) Serve(c *gin.Context) {
	h.relay.ServeHTTP(c.Writer, c.Request)
}
