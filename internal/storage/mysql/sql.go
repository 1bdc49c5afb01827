package mysql

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users (username, full_name, email, password_hash)
VALUES (?, ?, ?, ?)
`

const getUserSQL = `
SELECT id, username, full_name, email, password_hash
FROM users
WHERE id = ?
`

const getUserByUsernameSQL = `
SELECT id, username, full_name, email, password_hash
FROM users
WHERE username = ?
`

const getUserByEmailSQL = `
SELECT id, username, full_name, email, password_hash
FROM users
WHERE email = ?
`

// -----------------------------------------------------------------------------
// CATALOG & LEDGER SEEDING
// -----------------------------------------------------------------------------

const upsertRoomTypeSQL = `
INSERT INTO room_types (id, name, description, capacity)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  description = VALUES(description),
  capacity    = VALUES(capacity)
`

// Bulk-inserted per batch; existing (room_type_id, night) rows keep their
// live remaining count so re-seeding never clobbers sold inventory.
const seedNightsPrefix = "INSERT INTO room_nights (room_type_id, night, remaining)\nVALUES "

const seedNightsOnDup = " ON DUPLICATE KEY UPDATE remaining = room_nights.remaining"

// -----------------------------------------------------------------------------
// LEDGER
// -----------------------------------------------------------------------------

const getRemainingSQL = `
SELECT remaining FROM room_nights
WHERE room_type_id = ? AND night = ?
`

// The capacity check and the decrement are one guarded statement. The row
// lock it takes is held until commit, which serializes racing confirms on
// the same night key; zero rows affected means absent or exhausted.
const decrementNightSQL = `
UPDATE room_nights
SET remaining = remaining - 1
WHERE room_type_id = ? AND night = ? AND remaining >= 1
`

// Zero rows affected means the night was never seeded; restoring it is a no-op.
const restoreNightSQL = `
UPDATE room_nights
SET remaining = remaining + 1
WHERE room_type_id = ? AND night = ?
`

// -----------------------------------------------------------------------------
// AVAILABILITY SEARCH
// -----------------------------------------------------------------------------

// One row per room type that (a) can host the party, (b) has a ledger entry
// for every requested night. MIN(remaining) is the binding constraint: a
// range is only as available as its scarcest night.
const searchAvailabilitySQL = `
SELECT rt.id, rt.name, rt.description, MIN(rn.remaining) AS remaining
FROM room_types rt
JOIN room_nights rn ON rn.room_type_id = rt.id
WHERE rn.night >= ? AND rn.night < ? AND rt.capacity >= ?
GROUP BY rt.id, rt.name, rt.description
HAVING COUNT(rn.id) = ?
ORDER BY rt.id
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO bookings (user_id, room_type_id, checkin, checkout, guests)
VALUES (?, ?, ?, ?, ?)
`

const getBookingSQL = `
SELECT id, user_id, room_type_id, checkin, checkout, guests, created_at
FROM bookings
WHERE id = ?
`

// Missing row and foreign owner are indistinguishable on purpose. FOR UPDATE
// keeps a concurrent cancel of the same booking from double-restoring.
const getBookingOwnedSQL = `
SELECT id, user_id, room_type_id, checkin, checkout, guests, created_at
FROM bookings
WHERE id = ? AND user_id = ?
FOR UPDATE
`

const listBookingsSQL = `
SELECT id, user_id, room_type_id, checkin, checkout, guests, created_at
FROM bookings
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
`

const deleteBookingSQL = `
DELETE FROM bookings WHERE id = ?
`
