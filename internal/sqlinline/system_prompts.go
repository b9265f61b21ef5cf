package sqlinline

const QSelectSystemPrompt = `--sql 0c180f5e-fb9b-4e7b-b7eb-a51eaa977f47
select content
from system_prompts
where key = $1::text
  and active
order by updated_at desc
limit 1;
`
