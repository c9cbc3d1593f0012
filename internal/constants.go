package internal

const COOKIE_ACCESS_TOKEN_NAME = "opsboard_access_token"
