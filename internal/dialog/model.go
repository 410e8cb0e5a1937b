package dialog

type State string

const (
	StateIdle State = "idle"

	// Receiving
	StateRecvMenu   State = "recv_menu"
	StateRecvFilter State = "recv_filter" // waiting for a filter value, field in payload
	StateRecvName   State = "recv_name"
	StateRecvTemp   State = "recv_temp"
	StateRecvBy     State = "recv_by"

	// Recipes
	StateRecipeName         State = "rcp_name"
	StateRecipeDept         State = "rcp_dept"
	StateRecipeIngProduct   State = "rcp_ing_product"
	StateRecipeIngQty       State = "rcp_ing_qty"
	StateRecipeIngUnit      State = "rcp_ing_unit"
	StateRecipeIngMore      State = "rcp_ing_more" // add another ingredient or continue
	StateRecipeInstructions State = "rcp_instructions"

	// Transfer
	StateTransferProduct State = "tr_product"
	StateTransferDept    State = "tr_dept"
	StateTransferManager State = "tr_manager"

	StateReports State = "reports"

	// Import
	StateImportMenu     State = "imp_menu"
	StateImportProducts State = "imp_products" // waiting for the products file
	StateImportRecipes  State = "imp_recipes"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
