package store

const (
	createUser = `INSERT INTO users (username, email, password_hash, salt)
    VALUES ($1, $2, $3, $4)
    RETURNING user_id, username, email, password_hash, salt, failed_login_attempts, is_locked, last_login, created_at;`

	findUserByEmail = `SELECT user_id, username, email, password_hash, salt, failed_login_attempts, is_locked, last_login, created_at
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT user_id, username, email, password_hash, salt, failed_login_attempts, is_locked, last_login, created_at
    FROM users
    WHERE user_id = $1;`

	// The increment is a single conditional UPDATE so that two concurrent
	// failed logins can never both observe the same counter value.
	incrementFailedAttempts = `UPDATE users
    SET failed_login_attempts = failed_login_attempts + 1
    WHERE user_id = $1
    RETURNING failed_login_attempts;`

	lockAccount = `UPDATE users
    SET is_locked = TRUE
    WHERE user_id = $1;`

	updateLastLogin = `UPDATE users
    SET last_login = $2, failed_login_attempts = 0
    WHERE user_id = $1;`

	updatePassword = `UPDATE users
    SET password_hash = $2, salt = $3, failed_login_attempts = 0
    WHERE user_id = $1;`

	createSession = `INSERT INTO sessions (user_id, session_token, ip_address, user_agent, expires_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING session_id, created_at;`

	findActiveSessionByToken = `SELECT session_id, user_id, session_token, ip_address, user_agent, is_active, expires_at, created_at
    FROM sessions
    WHERE session_token = $1 AND is_active = TRUE AND expires_at > $2;`

	invalidateSession = `UPDATE sessions
    SET is_active = FALSE
    WHERE session_token = $1;`

	invalidateUserSessions = `UPDATE sessions
    SET is_active = FALSE
    WHERE user_id = $1;`

	createResetToken = `INSERT INTO password_reset_tokens (user_id, token, expires_at)
    VALUES ($1, $2, $3)
    RETURNING token_id, created_at;`

	findActiveResetToken = `SELECT token_id, user_id, token, is_used, expires_at, created_at
    FROM password_reset_tokens
    WHERE token = $1 AND is_used = FALSE AND expires_at > $2;`

	// Conditional consume: the unused/unexpired predicate lives in the same
	// statement as the write, so of two concurrent resets exactly one wins.
	consumeResetToken = `UPDATE password_reset_tokens
    SET is_used = TRUE
    WHERE token = $1 AND is_used = FALSE AND expires_at > $2
    RETURNING user_id;`

	deleteExpiredResetTokens = `DELETE FROM password_reset_tokens
    WHERE expires_at <= $1;`

	createCsrfToken = `INSERT INTO csrf_tokens (user_id, token, expires_at)
    VALUES ($1, $2, $3)
    RETURNING token_id, created_at;`

	// Validate and consume in one conditional DELETE (single use).
	consumeCsrfToken = `DELETE FROM csrf_tokens
    WHERE user_id = $1 AND token = $2 AND expires_at > $3;`

	deleteExpiredCsrfTokens = `DELETE FROM csrf_tokens
    WHERE expires_at <= $1;`

	appendLoginHistory = `INSERT INTO login_history (user_id, ip_address, user_agent, success)
    VALUES ($1, $2, $3, $4);`
)
