package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- PROFILE TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS profile SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS skills ON profile TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS contribution_style ON profile TYPE string;
    DEFINE FIELD IF NOT EXISTS experience_level ON profile TYPE string;
    DEFINE FIELD IF NOT EXISTS source_text ON profile TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON profile TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS profile_created ON profile FIELDS created;

    -- ==========================================================================
    -- SEARCH_SESSION TABLE (search history)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS search_session SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS keywords ON search_session TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS target_count ON search_session TYPE int;
    DEFINE FIELD IF NOT EXISTS is_sufficient ON search_session TYPE bool;
    DEFINE FIELD IF NOT EXISTS message ON search_session TYPE string;
    DEFINE FIELD IF NOT EXISTS repos_checked ON search_session TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS valid_count ON search_session TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS skipped_count ON search_session TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS rounds_run ON search_session TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS results ON search_session TYPE array<object> FLEXIBLE;
    -- Note: Must REMOVE then DEFINE to ensure FLEXIBLE is set (IF NOT EXISTS won't update existing field)
    REMOVE FIELD IF EXISTS results.* ON search_session;
    DEFINE FIELD results.* ON search_session TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS created ON search_session TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS session_created ON search_session FIELDS created;
`
