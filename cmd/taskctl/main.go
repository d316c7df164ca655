package main

import (
	"github.com/bornholm/taskmanager/internal/command"
	"github.com/bornholm/taskmanager/internal/command/task"
)

func main() {
	command.Main(
		"taskctl", "a task manager client tool",
		task.Commands()...,
	)
}
