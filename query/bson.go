package query

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var mongoOps = map[Op]string{
	Eq:  "$eq",
	Gt:  "$gt",
	Gte: "$gte",
	Lt:  "$lt",
	Lte: "$lte",
	In:  "$in",
}

// BSON renders the conditions as a MongoDB filter. Every condition becomes
// its own $and clause so repeated fields combine the same way as in SQL.
func (q *Query) BSON() bson.M {
	if len(q.Conditions) == 0 {
		return bson.M{}
	}
	clauses := make([]bson.M, 0, len(q.Conditions))
	for _, c := range q.Conditions {
		clauses = append(clauses, bsonClause(c))
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return bson.M{"$and": clauses}
}

// FindOptions renders sort, skip and limit.
func (q *Query) FindOptions() *options.FindOptions {
	sort := bson.D{}
	for _, s := range q.Sort {
		dir := 1
		if s.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: s.Field, Value: dir})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	return options.Find().
		SetSort(sort).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))
}

func bsonClause(c Condition) bson.M {
	if c.Kind == StringList {
		if c.Op == In {
			values := c.Value.([]any)
			regexes := make([]any, 0, len(values))
			for _, v := range values {
				regexes = append(regexes, exactFold(v))
			}
			return bson.M{c.Field: bson.M{"$in": regexes}}
		}
		return bson.M{c.Field: exactFold(c.Value)}
	}
	return bson.M{c.Field: bson.M{mongoOps[c.Op]: c.Value}}
}

func exactFold(v any) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(fmt.Sprint(v)) + "$", Options: "i"}
}

// ContainsFold is a case-insensitive substring match on key.
func ContainsFold(key, term string) bson.M {
	return bson.M{key: primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}
}
