package handlers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// pageEnvelope is the listing wrapper every paged endpoint returns.
type pageEnvelope struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func parsePageParams(c *gin.Context) (page, show int64) {
	page = 1
	show = 20

	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed >= 1 {
			page = parsed
		}
	}
	if raw := c.Query("show"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed >= 1 {
			show = parsed
		}
	}
	return page, show
}

// paginate counts the filtered collection, fetches one page sorted by sort,
// decodes into results (a pointer to a slice) and builds next/previous
// links off the request URL.
func paginate(ctx context.Context, c *gin.Context, coll *mongo.Collection, filter bson.M, sort bson.D, results interface{}) (pageEnvelope, error) {
	page, show := parsePageParams(c)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return pageEnvelope{}, err
	}

	opts := options.Find().
		SetSkip((page - 1) * show).
		SetLimit(show).
		SetSort(sort)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return pageEnvelope{}, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return pageEnvelope{}, err
	}

	envelope := pageEnvelope{
		Count:   total,
		Results: results,
	}
	if page*show < total {
		envelope.Next = pageLink(c, page+1, show)
	}
	if page > 1 {
		envelope.Previous = pageLink(c, page-1, show)
	}
	return envelope, nil
}

func pageLink(c *gin.Context, page, show int64) *string {
	query := url.Values{}
	for key, values := range c.Request.URL.Query() {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	query.Set("page", strconv.FormatInt(page, 10))
	query.Set("show", strconv.FormatInt(show, 10))

	link := fmt.Sprintf("%s?%s", c.Request.URL.Path, query.Encode())
	return &link
}
