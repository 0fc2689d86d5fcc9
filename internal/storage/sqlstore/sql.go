package sqlstore

// All statements use '?' placeholders; Repo rebinds them for the active dialect.

const userColumns = `id, name, email, password`

const getUserWithEmailSQL = `
SELECT ` + userColumns + `
FROM users
WHERE email = ?
LIMIT 1
`

const getUserWithIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = ?
LIMIT 1
`

const insertUserSQL = `
INSERT INTO users (name, email, password)
VALUES (?, ?, ?)
`

const returningUserSQL = ` RETURNING ` + userColumns

// propertyFields is the unqualified column list, in scan order.
const propertyFields = `id, owner_id, title, description, thumbnail_photo_url, cover_photo_url,
  cost_per_night, parking_spaces, number_of_bathrooms, number_of_bedrooms,
  country, street, city, province, post_code, active`

// propertyColumns is propertyFields qualified with the "p" alias.
const propertyColumns = `p.id, p.owner_id, p.title, p.description, p.thumbnail_photo_url, p.cover_photo_url,
  p.cost_per_night, p.parking_spaces, p.number_of_bathrooms, p.number_of_bedrooms,
  p.country, p.street, p.city, p.province, p.post_code, p.active`

const insertPropertySQL = `
INSERT INTO properties
  (owner_id, title, description, thumbnail_photo_url, cover_photo_url,
   cost_per_night, parking_spaces, number_of_bathrooms, number_of_bedrooms,
   country, street, city, province, post_code)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const returningPropertySQL = ` RETURNING ` + propertyFields

const getPropertyByIDSQL = `
SELECT ` + propertyFields + `
FROM properties
WHERE id = ?
`

// -----------------------------------------------------------------------------
// READ QUERIES WITH RATINGS
// -----------------------------------------------------------------------------

// Reviews are LEFT JOINed so unreviewed properties still show up with a NULL
// average. Grouping by the primary keys keeps the selected columns
// functionally dependent on the group on both PostgreSQL and MySQL.
const getAllReservationsSQL = `
SELECT
  r.id, r.guest_id, r.property_id, r.start_date, r.end_date,
  ` + propertyColumns + `,
  AVG(pr.rating) AS average_rating
FROM reservations r
JOIN properties p ON p.id = r.property_id
LEFT JOIN property_reviews pr ON pr.property_id = p.id
WHERE r.guest_id = ?
GROUP BY r.id, p.id
ORDER BY r.start_date, r.id
LIMIT ?
`

// The property listing is assembled by buildPropertiesQuery around these parts.
const (
	propertiesSelect = `
SELECT
  ` + propertyColumns + `,
  AVG(pr.rating) AS average_rating
FROM properties p
LEFT JOIN property_reviews pr ON pr.property_id = p.id`
	propertiesGroupBy = `GROUP BY p.id`
	propertiesOrderBy = `ORDER BY p.cost_per_night, p.id`
)
