package user

const (
	userColumns = `user_id, name, surname, email, password_hash, is_active, roles, created_at, updated_at`

	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1 AND is_active = true
	`
	SelectUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND is_active = true
	`
	InsertUser = `
		INSERT INTO users (user_id, name, surname, email, password_hash, is_active, roles)
		VALUES ($1, $2, $3, $4, $5, true, $6)
		RETURNING ` + userColumns
	SoftDeleteUserByID = `
		UPDATE users
		SET is_active = false,
		    updated_at = now()
		WHERE user_id = $1 AND is_active = true
		RETURNING ` + userColumns

	// buildUpdate joins these around the SET list of a partial update.
	updateUserPrefix = `UPDATE users SET `
	updateUserSuffix = `updated_at = now() WHERE user_id = $%d AND is_active = true RETURNING ` + userColumns
)
