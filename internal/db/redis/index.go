package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/schemaguard/internal/db"
)

// IndexInfo runs FT.INFO and extracts the attribute list.
// Redis reports fields under "attributes" (older releases use "fields").
func (s *Store) IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	reply, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "not found") {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpIndexInfo, Err: err}
	}

	info := &db.IndexInfo{Name: name}
	if err := parseInfo(reply, info); err != nil {
		return nil, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return info, nil
}

func parseInfo(reply []rueidis.RedisMessage, info *db.IndexInfo) error {
	if len(reply)%2 != 0 {
		return fmt.Errorf("unexpected reply length %d", len(reply))
	}
	for i := 0; i+1 < len(reply); i += 2 {
		key, err := reply[i].ToString()
		if err != nil {
			continue
		}
		val := &reply[i+1]
		switch strings.ToLower(key) {
		case "index_name":
			if v, err := val.ToString(); err == nil && v != "" {
				info.Name = v
			}
		case "attributes", "fields":
			attrs, err := val.ToArray()
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			for j := range attrs {
				a, err := parseAttribute(&attrs[j])
				if err != nil {
					return err
				}
				info.Attributes = append(info.Attributes, a)
			}
		}
	}
	return nil
}

// parseAttribute scans the flat attribute array for known keys.
// Flags like SORTABLE or NOSTEM have no value, so pairs cannot be assumed.
func parseAttribute(msg *rueidis.RedisMessage) (db.IndexAttribute, error) {
	parts, err := msg.ToArray()
	if err != nil {
		return db.IndexAttribute{}, fmt.Errorf("attribute: %w", err)
	}
	var a db.IndexAttribute
	for i := 0; i+1 < len(parts); i++ {
		key, err := parts[i].ToString()
		if err != nil {
			continue
		}
		var dst *string
		switch strings.ToLower(key) {
		case "identifier":
			dst = &a.Identifier
		case "attribute":
			dst = &a.Attribute
		case "type":
			dst = &a.Type
		default:
			continue
		}
		if v, err := parts[i+1].ToString(); err == nil {
			*dst = v
			i++
		}
	}
	if a.Identifier == "" && a.Attribute == "" {
		return db.IndexAttribute{}, fmt.Errorf("attribute without identifier")
	}
	return a, nil
}
