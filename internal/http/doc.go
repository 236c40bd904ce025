// Package httpapp provides the HTTP server for Newsdesk.
//
//	@title						Newsdesk API
//	@version					1.0
//	@description				A single-reporter news publishing service with machine translation.
//	@description
//	@description				Articles are written once in a base language (English, Hindi, or
//	@description				Marathi) and served in all three. The other two renditions are
//	@description				generated at create time; when translation fails for a language,
//	@description				that language falls back to the original text instead of failing
//	@description				the request.
//	@description
//	@description				## Authentication
//	@description
//	@description				The service hosts exactly one reporter account. Register it once:
//	@description				```bash
//	@description				curl -X POST /api/auth/register -d '{"username":"jram","email":"j@example.com","password":"..."}'
//	@description				```
//	@description				Then exchange the credentials for a bearer token:
//	@description				```bash
//	@description				curl -X POST /api/auth/login -d '{"email":"j@example.com","password":"..."}'
//	@description				# Returns: {"token": "...", "reporter": {...}}
//	@description				```
//	@description				All write endpoints and the admin listing require the token:
//	@description				```bash
//	@description				curl -X POST /api/news -H "Authorization: Bearer TOKEN" -F title=... -F content=...
//	@description				```
//
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token from the /api/auth/login endpoint
//
//	@tag.name					Auth
//	@tag.description			Reporter registration and login. Registration succeeds exactly once per deployment.
//
//	@tag.name					News
//	@tag.description			Create, browse, update, and delete articles. Public listings show published articles only; the admin listing includes drafts.
//
//	@tag.name					Meta
//	@tag.description			Build and version information.
package httpapp
