package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"lightbnb/internal/domain"
)

/********** alias registries **********/

var userAliases = map[string][]string{
	"id":       {"id", "user_id", "userId"},
	"name":     {"name", "full_name", "fullName", "username"},
	"email":    {"email", "email_address", "emailAddress", "contact.email"},
	"password": {"password", "password_hash", "passwordHash"},
}

var propertyAliases = map[string][]string{
	"id":          {"id", "property_id", "propertyId"},
	"owner":       {"owner_id", "ownerId", "owner", "user_id", "owner.id"},
	"title":       {"title", "name", "headline"},
	"description": {"description", "summary", "body"},
	"thumbnail":   {"thumbnail_photo_url", "thumbnail", "thumbnail_url", "photos.thumbnail"},
	"cover":       {"cover_photo_url", "cover", "cover_url", "photos.cover"},
	"parking":     {"parking_spaces", "parking"},
	"bathrooms":   {"number_of_bathrooms", "bathrooms"},
	"bedrooms":    {"number_of_bedrooms", "bedrooms"},
	"country":     {"country", "address.country"},
	"street":      {"street", "address.street", "address.line1"},
	"city":        {"city", "address.city", "locality"},
	"province":    {"province", "state", "address.province", "address.state"},
	"post_code":   {"post_code", "postcode", "postal_code", "zip", "address.post_code", "address.postal_code"},
}

// Prices given in cents win over prices given in dollars.
var (
	centsAliases   = []string{"cost_per_night_cents", "price_cents"}
	dollarsAliases = []string{"cost_per_night", "price_per_night", "price", "cost"}
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstString returns the first non-empty trimmed string among paths.
func firstString(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s, ok := lookupAny(m, p).(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/json.Number/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return &f
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			s = strings.TrimPrefix(s, "$")
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/json.Number/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return &n
			}
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

func intOrZero(p *int64) int {
	if p == nil {
		return 0
	}
	return int(*p)
}

/********** fixture records **********/

// fixtureUser is a users.json entry. Key is the id the fixture file uses,
// which properties.json refers to as the owner.
type fixtureUser struct {
	Key  int64
	User domain.NewUser
}

type fixtureProperty struct {
	Key      int64
	OwnerKey int64
	Property domain.NewProperty
}

// decodeRecords accepts either a JSON array of objects or an object keyed by
// id. Keyed objects are returned in ascending key order and the key fills in
// a missing "id".
func decodeRecords(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	switch v := raw.(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, it := range v {
			m, ok := it.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("decode fixture: element %d is not an object", i)
			}
			out = append(out, m)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, aerr := strconv.ParseInt(keys[i], 10, 64)
			b, berr := strconv.ParseInt(keys[j], 10, 64)
			if aerr == nil && berr == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		out := make([]map[string]any, 0, len(v))
		for _, k := range keys {
			m, ok := v[k].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("decode fixture: entry %q is not an object", k)
			}
			if _, has := m["id"]; !has {
				m["id"] = k
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, fmt.Errorf("decode fixture: expected array or object, got %T", raw)
}

/********** mappers **********/

// mapUser builds a NewUser from a loosely typed record. index is the
// record's position, used as the fixture key when no id is present.
func mapUser(m map[string]any, index int) fixtureUser {
	key := int64(index + 1)
	if v := firstInt64Flexible(m, userAliases["id"]...); v != nil {
		key = *v
	}
	return fixtureUser{
		Key: key,
		User: domain.NewUser{
			Name:     firstString(m, userAliases["name"]...),
			Email:    strings.ToLower(firstString(m, userAliases["email"]...)),
			Password: firstString(m, userAliases["password"]...),
		},
	}
}

func mapProperty(m map[string]any, index int) fixtureProperty {
	key := int64(index + 1)
	if v := firstInt64Flexible(m, propertyAliases["id"]...); v != nil {
		key = *v
	}
	var owner int64
	if v := firstInt64Flexible(m, propertyAliases["owner"]...); v != nil {
		owner = *v
	}

	return fixtureProperty{
		Key:      key,
		OwnerKey: owner,
		Property: domain.NewProperty{
			OwnerID:           owner,
			Title:             firstString(m, propertyAliases["title"]...),
			Description:       firstString(m, propertyAliases["description"]...),
			ThumbnailPhotoURL: firstString(m, propertyAliases["thumbnail"]...),
			CoverPhotoURL:     firstString(m, propertyAliases["cover"]...),
			CostPerNight:      priceCents(m),
			ParkingSpaces:     intOrZero(firstInt64Flexible(m, propertyAliases["parking"]...)),
			NumberOfBathrooms: intOrZero(firstInt64Flexible(m, propertyAliases["bathrooms"]...)),
			NumberOfBedrooms:  intOrZero(firstInt64Flexible(m, propertyAliases["bedrooms"]...)),
			Country:           firstString(m, propertyAliases["country"]...),
			Street:            firstString(m, propertyAliases["street"]...),
			City:              firstString(m, propertyAliases["city"]...),
			Province:          firstString(m, propertyAliases["province"]...),
			PostCode:          firstString(m, propertyAliases["post_code"]...),
		},
	}
}

// priceCents reads the nightly price. Fixture prices are dollars unless the
// key says cents.
func priceCents(m map[string]any) int64 {
	if v := firstInt64Flexible(m, centsAliases...); v != nil {
		return *v
	}
	if f := getFloatFlexible(m, dollarsAliases...); f != nil {
		return int64(math.Round(*f * 100))
	}
	return 0
}
