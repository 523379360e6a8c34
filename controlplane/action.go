package controlplane

// Action is one member of the closed set of routable actions. Using a
// closed set with one switch arm per variant keeps dispatch exhaustive
// instead of relying on runtime map lookups.
type Action string

const (
	ActionSearchKnowledge      Action = "search_knowledge"
	ActionIngestDocument       Action = "ingest_document"
	ActionAssessUnderstanding  Action = "assess_understanding"
	ActionUpdateLearnerProfile Action = "update_learner_profile"
	ActionLogInteraction       Action = "log_interaction"
	ActionReadFile             Action = "read_file"
	ActionListDirectory        Action = "list_directory"
	ActionWriteFile            Action = "write_file"
	ActionDeleteFile           Action = "delete_file"
	ActionWebSearch            Action = "web_search"
	ActionFetchURL             Action = "fetch_url"
	ActionExecuteCommand       Action = "execute_command"
	ActionRunCode              Action = "run_code"
	ActionSetAssignment        Action = "set_assignment"
)

// Actions lists every routable action
var Actions = []Action{
	ActionSearchKnowledge,
	ActionIngestDocument,
	ActionAssessUnderstanding,
	ActionUpdateLearnerProfile,
	ActionLogInteraction,
	ActionReadFile,
	ActionListDirectory,
	ActionWriteFile,
	ActionDeleteFile,
	ActionWebSearch,
	ActionFetchURL,
	ActionExecuteCommand,
	ActionRunCode,
	ActionSetAssignment,
}

// ParseAction resolves a normalized action name to its variant
func ParseAction(name string) (Action, bool) {
	for _, action := range Actions {
		if string(action) == name {
			return action, true
		}
	}
	return "", false
}
