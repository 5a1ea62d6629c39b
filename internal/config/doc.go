// Package config handles configuration loading for picbot.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment variable
// expansion. Files ending in .toml are parsed as TOML; anything else is YAML.
// Empty fields receive defaults, then the result is validated.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from --config flag
//  2. Path from PICBOT_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/picbot/picbot.yaml
//  4. ~/.config/picbot/picbot.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	cognitive:
//	  classifier:
//	    key: "${LUIS_API_KEY}"
//
// Unset variables expand to an empty string.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	server:
//	  turn_timeout: "30s"
//	dedupe:
//	  ttl: "5m"
//
// # Example Configuration
//
//	server:
//	  http_addr: "0.0.0.0:3978"
//
//	database:
//	  path: "~/.local/share/picbot/picbot.db"
//
//	auth:
//	  jwt_secret: "${PICBOT_JWT_SECRET}"
//
//	bot:
//	  show_intent_scores: false
//
//	conversation:
//	  history_limit: 200
//
//	cognitive:
//	  classifier:
//	    endpoint: "https://westus.api.cognitive.microsoft.com"
//	    app_id: "${LUIS_APP_ID}"
//	    key: "${LUIS_API_KEY}"
//	  translator:
//	    endpoint: "https://api.microsofttranslator.com/V2/Http.svc"
//	    token_endpoint: "https://api.cognitive.microsoft.com/sts/v1.0/issueToken"
//	    key: "${TRANSLATOR_KEY}"
//	  sentiment:
//	    endpoint: "https://westus.api.cognitive.microsoft.com/text/analytics/v2.1/sentiment"
//	    key: "${TEXT_ANALYTICS_KEY}"
//
//	matrix:
//	  enabled: true
//	  homeserver: "https://matrix.org"
//	  user_id: "@picbot:matrix.org"
//	  access_token: "${MATRIX_TOKEN}"
//	  allowed_rooms: ["!abc:matrix.org"]
//
//	logging:
//	  level: "info"
//	  format: "text"
//
// A cognitive service with no endpoint runs offline: messages are treated as
// English, the classifier predicts nothing and sentiment is neutral.
package config
