/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/codequest-gg/gameserver/cmd"

func main() {
	cmd.Execute()
}
