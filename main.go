/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
// @title           MyWork API
// @version         1.0
// @description     Unified work queue across cases, investigations, remediation, disclosures, campaigns and approvals

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token from Keycloak
package main

import "github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/cmd"

func main() {
	cmd.Execute()
}
