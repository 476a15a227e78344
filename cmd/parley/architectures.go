package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var architecturesCmd = &cobra.Command{
	Use:   "architectures",
	Short: "List the available coordination architectures",
	RunE:  runArchitectures,
}

func runArchitectures(cmd *cobra.Command, args []string) error {
	mgr, _, err := buildManager()
	if err != nil {
		return err
	}

	for _, info := range mgr.ListArchitectures() {
		marker := " "
		if info.Active {
			marker = color.GreenString("*")
		}
		fmt.Printf("%s %-13s %s\n", marker, info.Name, info.Description)
	}
	return nil
}
