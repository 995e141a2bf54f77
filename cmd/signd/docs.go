package main

// General API documentation for swaggo. Run `swag init -g cmd/signd/docs.go -o docs`
// to regenerate the docs package.
//
// @title           signd API
// @version         1.0
// @description     HTTP API for traffic sign image classification.
//
// @contact.name   signd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
