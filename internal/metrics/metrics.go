package metrics

const Namespace = "taskmanager"
