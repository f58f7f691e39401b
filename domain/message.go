package domain

type (
	PrimaryDomain   string
	SecondaryDomain string
	Operation       string
	Result          string
)

const (
	DomainGroup  PrimaryDomain = "group"
	DomainRecipe PrimaryDomain = "recipe"
	DomainPlan   PrimaryDomain = "plan"
	DomainPeople PrimaryDomain = "people"
)

const (
	SecondaryAuthors      SecondaryDomain = "authors"
	SecondaryIngredients  SecondaryDomain = "ingredients"
	SecondaryInstructions SecondaryDomain = "instructions"
	SecondaryInvites      SecondaryDomain = "invites"
	SecondaryRecipes      SecondaryDomain = "recipes"
	SecondaryGroups       SecondaryDomain = "groups"
	SecondaryPlans        SecondaryDomain = "plans"
	SecondaryName         SecondaryDomain = "name"
	SecondaryGroupMembers SecondaryDomain = "group_members"
)

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationGet    Operation = "get"
	OperationSearch Operation = "search"
)

const (
	ResultSuccess        Result = "success"
	ResultError          Result = "error"
	ResultPermissionDeny Result = "permission_deny"
	ResultEmpty          Result = "empty"
	ResultBadRequest     Result = "bad_request"
	ResultAlreadyExists  Result = "already_exists"
)

// Message is the body written for every mutation and for every failed request.
type Message struct {
	PrimaryDomain   PrimaryDomain   `json:"primaryDomain"`
	SecondaryDomain SecondaryDomain `json:"secondaryDomain,omitempty"`
	Operation       Operation       `json:"operation,omitempty"`
	Result          Result          `json:"result"`
	Message         string          `json:"message,omitempty"`
	Data            any             `json:"data,omitempty"`
}

func NewMessage(primary PrimaryDomain, operation Operation) Message {
	return Message{PrimaryDomain: primary, Operation: operation}
}

func (m Message) WithSecondary(secondary SecondaryDomain) Message {
	m.SecondaryDomain = secondary
	return m
}

func (m Message) WithResult(result Result) Message {
	m.Result = result
	return m
}

func (m Message) WithMessage(msg string) Message {
	m.Message = msg
	return m
}

func (m Message) WithData(data any) Message {
	m.Data = data
	return m
}
