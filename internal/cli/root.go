package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "submit":
		return runSubmit(args[1:])
	case "remove":
		return runRemove(args[1:])
	case "list":
		return runList(args[1:])
	case "status":
		return runStatus(args[1:])
	case "daemon":
		return runDaemon(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("jobsched: single-machine admission scheduler for resource-heavy jobs")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  jobsched submit <job-file> <priority>")
	fmt.Println("  jobsched daemon")
	fmt.Println("  jobsched status --watch")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  submit <job-file> <priority>   queue a job (priority 1-10, 10 highest)")
	fmt.Println("  remove <id>                    remove a pending job from the queue")
	fmt.Println("  list                           show pending and running jobs")
	fmt.Println("  status [--watch]               resource and queue summary")
	fmt.Println("  daemon                         run the admission scheduler loop")
	fmt.Println("  doctor                         check dependencies and spool health")
	fmt.Println()
	fmt.Println("Run 'jobsched <command> -h' for command flags.")
}
