package protocol

// Message types published on the report topic.
const (
	TypeRobotReport = "robot.report"
)

// Roles for Address.Role.
const (
	RoleRobot     = "robot"
	RoleCollector = "collector"
)

// Protocol version.
const Version = 1
